package bookings

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"homestay/internal/hotels"
	"homestay/internal/payments"
	"homestay/internal/shared/apperr"
	"homestay/internal/shared/constants"
	"homestay/internal/users"
	"homestay/pkg/cache"
	"homestay/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Availability
	CheckAvailability(ctx context.Context, hotelID uuid.UUID) ([]BookedRange, error)
	IsRangeFree(ctx context.Context, hotelID uuid.UUID, interval Interval, bookingType BookingType) (bool, error)

	// Reservation and lifecycle
	CreateBooking(ctx context.Context, actor Actor, input CreateBookingInput) (*Booking, error)
	GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error)
	UploadIDProof(ctx context.Context, actor Actor, bookingID uuid.UUID, input UploadIDProofInput) (*Booking, error)
	ReviewIDProof(ctx context.Context, actor Actor, bookingID uuid.UUID, decision Decision, reason string) (*Booking, error)
	ConfirmBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error)
	CancelBooking(ctx context.Context, guestID, bookingID uuid.UUID, reason string) (*Booking, error)
	CompleteBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error)
	MarkRefunded(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	// Listings
	ListGuestBookings(ctx context.Context, guestID uuid.UUID) ([]Booking, error)
	ListHotelBookings(ctx context.Context, ownerID uuid.UUID) ([]Booking, error)
	ListHotelGuests(ctx context.Context, ownerID uuid.UUID) ([]HotelGuest, error)

	// Scheduled maintenance
	CompletePastStays(ctx context.Context) (int, error)
	ReconcileCounters(ctx context.Context) (*ReconcileResult, error)
}

type CreateBookingInput struct {
	HotelID          uuid.UUID
	GuestID          uuid.UUID
	CheckIn          time.Time
	CheckOut         time.Time
	AdultCount       int
	ChildCount       int
	BookingType      BookingType
	Contact          Contact
	SpecialRequests  string
	SkipIDCollection bool
}

type UploadIDProofInput struct {
	Type       IDProofType
	FrontImage string
	BackImage  string
}

type ServiceOption func(*service)

func WithLocker(locker HotelLocker) ServiceOption {
	return func(s *service) {
		s.locker = locker
	}
}

func WithNotifier(notifier Notifier) ServiceOption {
	return func(s *service) {
		s.notifier = notifier
	}
}

// WithRangeCache caches booked ranges per hotel for ttl; every write to a hotel clears its entry.
// A non-positive ttl keeps the default.
func WithRangeCache(c cache.Service, ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cache = c
		if ttl > 0 {
			s.rangeTTL = ttl
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = now
	}
}

func WithLogger(l *logger.Logger) ServiceOption {
	return func(s *service) {
		s.log = l
	}
}

func WithCompletionBatchSize(n int) ServiceOption {
	return func(s *service) {
		if n > 0 {
			s.completionBatch = n
		}
	}
}

type service struct {
	repo     Repository
	hotels   hotels.Repository
	guests   users.Repository
	payments payments.Processor

	locker          HotelLocker
	notifier        Notifier
	cache           cache.Service
	rangeTTL        time.Duration
	now             func() time.Time
	log             *logger.Logger
	completionBatch int
}

func NewService(repo Repository, hotelRepo hotels.Repository, userRepo users.Repository, processor payments.Processor, opts ...ServiceOption) Service {
	s := &service{
		repo:            repo,
		hotels:          hotelRepo,
		guests:          userRepo,
		payments:        processor,
		notifier:        noopNotifier{},
		rangeTTL:        constants.TTL_HOTEL_BOOKED_RANGES,
		now:             time.Now,
		log:             logger.GetDefault(),
		completionBatch: 200,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CheckAvailability(ctx context.Context, hotelID uuid.UUID) ([]BookedRange, error) {
	if _, err := s.hotels.GetHotelByID(ctx, hotelID); err != nil {
		return nil, err
	}

	fetch := func() (interface{}, error) {
		active, err := s.repo.GetActiveBookingsForHotel(ctx, hotelID)
		if err != nil {
			return nil, err
		}
		return BookedRanges(active), nil
	}

	if s.cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.([]BookedRange), nil
	}

	var ranges []BookedRange
	key := constants.BuildHotelBookedRangesKey(hotelID.String())
	if err := s.cache.GetOrSet(ctx, key, s.rangeTTL, fetch, &ranges); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Dependency(err, "failed to load booked ranges")
	}
	return ranges, nil
}

// IsRangeFree is advisory only; CreateBooking re-checks atomically
func (s *service) IsRangeFree(ctx context.Context, hotelID uuid.UUID, interval Interval, bookingType BookingType) (bool, error) {
	if err := interval.Validate(bookingType); err != nil {
		return false, err
	}
	active, err := s.repo.GetActiveBookingsForHotel(ctx, hotelID)
	if err != nil {
		return false, err
	}
	return IsRangeFree(active, interval), nil
}

func (s *service) CreateBooking(ctx context.Context, actor Actor, input CreateBookingInput) (*Booking, error) {
	switch actor.Role {
	case users.RoleGuest:
		input.GuestID = actor.ID
	case users.RoleAdmin:
		if input.GuestID == uuid.Nil {
			return nil, apperr.Validation("guest_id is required for bookings made by an admin")
		}
	default:
		return nil, apperr.Validation("only guests and admins can create bookings")
	}
	if input.SkipIDCollection && !actor.IsAdmin() {
		return nil, apperr.Validation("only admins can create instant bookings")
	}

	interval := Interval{CheckIn: input.CheckIn.UTC(), CheckOut: input.CheckOut.UTC()}
	if err := validateCreateInput(input, interval); err != nil {
		return nil, err
	}

	hotel, err := s.hotels.GetHotelByID(ctx, input.HotelID)
	if err != nil {
		return nil, err
	}
	totalCost, err := QuoteTotalCost(hotel, interval, input.BookingType)
	if err != nil {
		return nil, err
	}

	guest, err := s.guests.GetUserByID(ctx, input.GuestID)
	if err != nil {
		return nil, err
	}
	contact := mergeContact(input.Contact, guest)
	if contact.FirstName == "" || contact.Email == "" {
		return nil, apperr.Validation("guest first name and email are required")
	}

	release, err := s.acquireHotelLock(ctx, input.HotelID)
	if err != nil {
		return nil, err
	}
	defer release()

	booking := &Booking{
		ID:              uuid.New(),
		GuestID:         input.GuestID,
		HotelID:         input.HotelID,
		FirstName:       contact.FirstName,
		LastName:        contact.LastName,
		Email:           contact.Email,
		Phone:           contact.Phone,
		AdultCount:      input.AdultCount,
		ChildCount:      input.ChildCount,
		CheckIn:         interval.CheckIn,
		CheckOut:        interval.CheckOut,
		BookingType:     input.BookingType,
		TotalCost:       totalCost,
		Status:          StatusIDPending,
		IDProof:         IDProof{Status: IDProofPending},
		SpecialRequests: strings.TrimSpace(input.SpecialRequests),
	}
	if input.SkipIDCollection {
		booking.Status = StatusPaymentDone
	}

	receipt, err := s.payments.Charge(ctx, booking.ID, totalCost)
	if err != nil {
		return nil, apperr.Dependency(err, "payment could not be processed")
	}
	booking.PaymentStatus = receipt.Status
	booking.TransactionID = receipt.TransactionID

	if err := s.repo.CreateBookingWithAvailabilityCheck(ctx, booking); err != nil {
		if _, refundErr := s.payments.Refund(ctx, booking.ID, totalCost); refundErr != nil {
			s.log.ErrorWithContext(ctx, "Failed to void charge of rejected booking", refundErr, map[string]interface{}{
				"booking_id":     booking.ID.String(),
				"transaction_id": receipt.TransactionID,
			})
		}
		if errors.Is(err, apperr.ErrDatesUnavailable) {
			s.log.LogBookingConflict(ctx, input.HotelID.String(), input.GuestID.String())
		}
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.HotelID.String(), booking.GuestID.String(), booking.TotalCost)
	s.afterWrite(ctx, EventCreated, booking)
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID == actor.ID || actor.IsAdmin() {
		return booking, nil
	}
	if err := s.authorizeHotelStaff(ctx, actor, booking.HotelID); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) UploadIDProof(ctx context.Context, actor Actor, bookingID uuid.UUID, input UploadIDProofInput) (*Booking, error) {
	input.FrontImage = strings.TrimSpace(input.FrontImage)
	if input.FrontImage == "" {
		return nil, apperr.Validation("front image of the ID proof is required")
	}
	if !input.Type.IsValid() {
		return nil, apperr.Validation("ID type must be one of Aadhaar, Passport, Driving License, Voter ID")
	}

	t := Transition{
		To: StatusIDSubmitted,
		Apply: func(b *Booking, now time.Time) {
			b.IDProof.Type = input.Type
			b.IDProof.FrontImage = input.FrontImage
			b.IDProof.BackImage = strings.TrimSpace(input.BackImage)
			b.IDProof.Status = IDProofSubmitted
			b.IDProof.SubmittedAt = &now
		},
		Guard: func(b *Booking) error {
			if b.IDProof.Status == IDProofRejected {
				return apperr.NotFound("rejected ID proofs cannot be resubmitted")
			}
			return nil
		},
	}

	if actor.Role == users.RoleGuest {
		t.GuestID = actor.ID
		t.From = []Status{StatusIDPending, StatusPaymentDone}
	} else {
		// Staff upload documents for walk-in bookings only
		booking, err := s.repo.GetBookingByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if err := s.authorizeHotelStaff(ctx, actor, booking.HotelID); err != nil {
			return nil, err
		}
		t.From = []Status{StatusPaymentDone}
	}

	return s.transition(ctx, actor, bookingID, EventIDSubmitted, t)
}

func (s *service) ReviewIDProof(ctx context.Context, actor Actor, bookingID uuid.UUID, decision Decision, reason string) (*Booking, error) {
	if !decision.IsValid() {
		return nil, apperr.Validation("decision must be approve or reject")
	}

	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeHotelStaff(ctx, actor, booking.HotelID); err != nil {
		return nil, err
	}

	proofSubmitted := func(b *Booking) error {
		if b.IDProof.Status != IDProofSubmitted {
			return apperr.NotFound("no submitted ID proof to review")
		}
		return nil
	}

	if decision == DecisionApprove {
		return s.transition(ctx, actor, bookingID, EventConfirmed, Transition{
			From:  []Status{StatusIDSubmitted},
			To:    StatusConfirmed,
			Guard: proofSubmitted,
			Apply: func(b *Booking, now time.Time) {
				b.IDProof.Status = IDProofVerified
				b.IDProof.VerifiedAt = &now
			},
		})
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	rejected, err := s.transition(ctx, actor, bookingID, EventRejected, Transition{
		From:   []Status{StatusIDSubmitted},
		To:     StatusRejected,
		Guard:  proofSubmitted,
		Refund: true,
		Apply: func(b *Booking, now time.Time) {
			b.IDProof.Status = IDProofRejected
			b.IDProof.RejectionReason = reason
			b.RejectionReason = reason
		},
	})
	if err != nil {
		return nil, err
	}
	s.refund(ctx, rejected)
	return rejected, nil
}

// ConfirmBooking confirms a walk-in booking whose ID was checked at the desk
func (s *service) ConfirmBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeHotelStaff(ctx, actor, booking.HotelID); err != nil {
		return nil, err
	}

	return s.transition(ctx, actor, bookingID, EventConfirmed, Transition{
		From: []Status{StatusPaymentDone},
		To:   StatusConfirmed,
		Apply: func(b *Booking, now time.Time) {
			b.IDProof.Status = IDProofVerified
			b.IDProof.VerifiedAt = &now
		},
	})
}

func (s *service) CancelBooking(ctx context.Context, guestID, bookingID uuid.UUID, reason string) (*Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancellationReason
	}

	cancelled, err := s.transition(ctx, Actor{ID: guestID, Role: users.RoleGuest}, bookingID, EventCancelled, Transition{
		From:    SourcesOf(StatusCancelled),
		To:      StatusCancelled,
		GuestID: guestID,
		Refund:  true,
		Apply: func(b *Booking, now time.Time) {
			b.CancellationReason = reason
			b.CancelledAt = &now
		},
	})
	if err != nil {
		return nil, err
	}
	s.refund(ctx, cancelled)
	return cancelled, nil
}

// CompleteBooking lets hotel staff close a stay once its checkout has passed
func (s *service) CompleteBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeHotelStaff(ctx, actor, booking.HotelID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, bookingID, EventCompleted, s.completion())
}

func (s *service) MarkRefunded(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.transition(ctx, Actor{Role: users.RoleAdmin}, bookingID, EventRefunded, Transition{
		From:   []Status{StatusRefundPending},
		To:     StatusRefunded,
		Refund: true,
	})
}

func (s *service) ListGuestBookings(ctx context.Context, guestID uuid.UUID) ([]Booking, error) {
	list, err := s.repo.GetGuestBookings(ctx, guestID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list)
	return list, nil
}

func (s *service) ListHotelBookings(ctx context.Context, ownerID uuid.UUID) ([]Booking, error) {
	hotelIDs, err := s.hotels.GetHotelIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.GetBookingsByHotelIDs(ctx, hotelIDs)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list)
	return list, nil
}

func (s *service) ListHotelGuests(ctx context.Context, ownerID uuid.UUID) ([]HotelGuest, error) {
	list, err := s.ListHotelBookings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return GroupGuests(list), nil
}

func (s *service) CompletePastStays(ctx context.Context) (int, error) {
	ids, err := s.repo.GetCompletableBookingIDs(ctx, s.now().UTC(), s.completionBatch)
	if err != nil {
		return 0, err
	}

	completed := 0
	system := Actor{Role: users.RoleAdmin}
	for _, id := range ids {
		if _, err := s.transition(ctx, system, id, EventCompleted, s.completion()); err != nil {
			if errors.Is(err, apperr.ErrNotFoundOrIllegalState) {
				// Cancelled or completed by someone else since the scan
				continue
			}
			return completed, err
		}
		completed++
	}
	return completed, nil
}

func (s *service) ReconcileCounters(ctx context.Context) (*ReconcileResult, error) {
	return s.repo.ReconcileCounters(ctx)
}

func (s *service) completion() Transition {
	return Transition{
		From: []Status{StatusConfirmed},
		To:   StatusCompleted,
		Guard: func(b *Booking) error {
			if s.now().Before(b.CheckOut) {
				return apperr.NotFound("stay has not ended yet")
			}
			return nil
		},
		Apply: func(b *Booking, now time.Time) {
			b.CompletedAt = &now
		},
	}
}

func (s *service) transition(ctx context.Context, actor Actor, bookingID uuid.UUID, event Event, t Transition) (*Booking, error) {
	booking, err := s.repo.ApplyTransition(ctx, bookingID, t)
	if err != nil {
		return nil, err
	}
	s.log.LogBookingTransition(ctx, booking.ID.String(), statusList(t.From), string(booking.Status), actor.ID.String())
	s.afterWrite(ctx, event, booking)
	return booking, nil
}

// afterWrite runs best-effort side effects; the booking write has already committed
func (s *service) afterWrite(ctx context.Context, event Event, booking *Booking) {
	if s.cache != nil {
		key := constants.BuildHotelBookedRangesKey(booking.HotelID.String())
		if err := s.cache.Delete(ctx, key); err != nil {
			s.log.WarnContext(ctx, "Failed to clear booked ranges cache", "hotel_id", booking.HotelID.String(), "error", err)
		}
	}
	if err := s.notifier.NotifyBookingEvent(ctx, event, booking); err != nil {
		s.log.WarnContext(ctx, "Failed to publish booking notification",
			"booking_id", booking.ID.String(), "event", string(event), "error", err)
	}
}

func (s *service) refund(ctx context.Context, booking *Booking) {
	if booking.RefundAmount <= 0 {
		return
	}
	if _, err := s.payments.Refund(ctx, booking.ID, booking.RefundAmount); err != nil {
		s.log.ErrorWithContext(ctx, "Refund call failed, booking stays marked refunded for reconciliation", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
			"amount":     booking.RefundAmount,
		})
	}
}

func (s *service) acquireHotelLock(ctx context.Context, hotelID uuid.UUID) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Acquire(ctx, hotelID)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, ErrLockBusy) {
		return nil, apperr.Dependency(err, "hotel is handling another reservation, please retry")
	}
	if ctx.Err() != nil {
		return nil, apperr.Dependency(ctx.Err(), "request cancelled while waiting for hotel")
	}
	// The database transaction stays authoritative without the lock
	s.log.WarnContext(ctx, "Hotel lock unavailable, relying on database locking", "hotel_id", hotelID.String(), "error", err)
	return func() {}, nil
}

// authorizeHotelStaff allows admins and the owner of the hotel
func (s *service) authorizeHotelStaff(ctx context.Context, actor Actor, hotelID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role != users.RoleOwner {
		return apperr.NotFound("booking not found")
	}
	hotel, err := s.hotels.GetHotelByID(ctx, hotelID)
	if err != nil {
		return err
	}
	if !hotel.IsOwnedBy(actor.ID) {
		return apperr.NotFound("booking not found")
	}
	return nil
}

func validateCreateInput(input CreateBookingInput, interval Interval) error {
	if input.HotelID == uuid.Nil {
		return apperr.Validation("hotel_id is required")
	}
	if input.AdultCount < 1 {
		return apperr.Validation("at least one adult is required")
	}
	if input.ChildCount < 0 {
		return apperr.Validation("child count cannot be negative")
	}
	return interval.Validate(input.BookingType)
}

// mergeContact fills missing contact fields from the guest profile
func mergeContact(c Contact, guest *users.User) Contact {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	if guest == nil {
		return c
	}
	if c.FirstName == "" {
		c.FirstName = guest.FirstName
		if c.LastName == "" {
			c.LastName = guest.LastName
		}
	}
	if c.Email == "" {
		c.Email = guest.Email
	}
	if c.Phone == "" {
		c.Phone = guest.Phone
	}
	return c
}

func statusList(list []Status) string {
	return strings.Join(statusStrings(list), "|")
}

func sortNewestFirst(list []Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
