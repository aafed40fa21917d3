package bookings

type Status string

const (
	StatusPaymentDone   Status = "PAYMENT_DONE"
	StatusIDPending     Status = "ID_PENDING"
	StatusIDSubmitted   Status = "ID_SUBMITTED"
	StatusConfirmed     Status = "CONFIRMED"
	StatusCompleted     Status = "COMPLETED"
	StatusRejected      Status = "REJECTED"
	StatusCancelled     Status = "CANCELLED"
	StatusRefundPending Status = "REFUND_PENDING"
	StatusRefunded      Status = "REFUNDED"
)

// transitions lists every legal next status. Statuses without an entry are terminal.
var transitions = map[Status][]Status{
	StatusIDPending:     {StatusIDSubmitted, StatusCancelled},
	StatusIDSubmitted:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed:     {StatusCompleted, StatusCancelled},
	StatusPaymentDone:   {StatusIDSubmitted, StatusConfirmed, StatusCancelled},
	StatusRefundPending: {StatusRefunded},
}

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPaymentDone, StatusIDPending, StatusIDSubmitted, StatusConfirmed, StatusCompleted,
		StatusRejected, StatusCancelled, StatusRefundPending, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether next is a legal successor of s
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal checks if no further transition is possible
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsVoided checks if the booking no longer holds its interval
func (s Status) IsVoided() bool {
	switch s {
	case StatusCancelled, StatusRejected, StatusRefunded:
		return true
	}
	return false
}

// CanBeCancelled checks if a guest may still cancel a booking with this status
func (s Status) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// VoidedStatuses are excluded from availability checks
func VoidedStatuses() []Status {
	return []Status{StatusCancelled, StatusRejected, StatusRefunded}
}

// SourcesOf returns every status that may move to target
func SourcesOf(target Status) []Status {
	var sources []Status
	for _, from := range []Status{StatusPaymentDone, StatusIDPending, StatusIDSubmitted, StatusConfirmed, StatusRefundPending} {
		if from.CanTransitionTo(target) {
			sources = append(sources, from)
		}
	}
	return sources
}

type BookingType string

const (
	BookingTypeNightly BookingType = "nightly"
	BookingTypeHourly  BookingType = "hourly"
)

func (t BookingType) IsValid() bool {
	return t == BookingTypeNightly || t == BookingTypeHourly
}

type IDProofStatus string

const (
	IDProofPending   IDProofStatus = "PENDING"
	IDProofSubmitted IDProofStatus = "SUBMITTED"
	IDProofVerified  IDProofStatus = "VERIFIED"
	IDProofRejected  IDProofStatus = "REJECTED"
)

type IDProofType string

const (
	IDProofAadhaar        IDProofType = "Aadhaar"
	IDProofPassport       IDProofType = "Passport"
	IDProofDrivingLicense IDProofType = "Driving License"
	IDProofVoterID        IDProofType = "Voter ID"
)

func (t IDProofType) IsValid() bool {
	switch t {
	case IDProofAadhaar, IDProofPassport, IDProofDrivingLicense, IDProofVoterID:
		return true
	}
	return false
}

// Decision is an owner or admin verdict on a submitted ID proof
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

const (
	DefaultRejectionReason    = "ID proof rejected"
	DefaultCancellationReason = "User cancelled"
)
