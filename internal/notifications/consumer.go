package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"homestay/internal/shared/config"
	"homestay/pkg/logger"

	"github.com/IBM/sarama"
)

// ErrMalformedNotification marks payloads that can never be delivered
var ErrMalformedNotification = errors.New("malformed notification")

type NotificationConsumer interface {
	StartConsumers(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	NumWorkers           int
	SessionTimeoutMs     int
	HeartbeatMs          int
	RetryBackoffMs       int
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "homestay-notification-workers",
		Topics:               []string{"booking-notifications"},
		NumWorkers:           3,
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		RetryBackoffMs:       100,
		MaxProcessingTime:    5 * time.Minute,
		OffsetOldest:         false,
		MaxRetries:           DefaultMaxRetries,
		RetryBackoffDuration: time.Second,
	}
}

// NewConsumerConfig applies the application's Kafka settings over the defaults
func NewConsumerConfig(cfg config.KafkaConfig) *ConsumerConfig {
	consumerConfig := DefaultConsumerConfig()
	if len(cfg.Brokers) > 0 {
		consumerConfig.Brokers = cfg.Brokers
	}
	if cfg.NotificationTopic != "" {
		consumerConfig.Topics = []string{cfg.NotificationTopic}
	}
	if cfg.ConsumerGroupID != "" {
		consumerConfig.GroupID = cfg.ConsumerGroupID
	}
	if cfg.NumConsumerWorkers > 0 {
		consumerConfig.NumWorkers = cfg.NumConsumerWorkers
	}
	return consumerConfig
}

// Dispatcher decodes a notification payload and delivers it with retries
type Dispatcher struct {
	email      EmailService
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
	log        *logger.Logger
}

func NewDispatcher(email EmailService, maxRetries int, backoff time.Duration) *Dispatcher {
	return &Dispatcher{
		email:      email,
		maxRetries: maxRetries,
		backoff:    backoff,
		now:        time.Now,
		log:        logger.GetDefault().WithComponent("notifications"),
	}
}

// Process returns nil once the payload is delivered or deliberately dropped
func (d *Dispatcher) Process(ctx context.Context, payload []byte) error {
	var notification BookingNotification
	if err := json.Unmarshal(payload, &notification); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}
	if notification.RecipientEmail == "" {
		return fmt.Errorf("%w: missing recipient email", ErrMalformedNotification)
	}

	if notification.IsExpired(d.now()) {
		d.log.InfoContext(ctx, "Notification expired, skipping",
			"notification_id", notification.ID.String(), "type", string(notification.Type))
		return nil
	}

	notification.Status = NotificationStatusSending
	if err := d.executeWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	d.log.InfoContext(ctx, "Booking notification sent",
		"booking_id", notification.BookingID.String(),
		"type", string(notification.Type),
		"retries", notification.RetryCount,
	)
	return nil
}

func (d *Dispatcher) executeWithRetry(ctx context.Context, notification *BookingNotification) error {
	for attempt := 0; ; attempt++ {
		err := d.email.SendNotification(ctx, notification)
		if err == nil {
			return nil
		}
		if attempt >= d.maxRetries {
			return fmt.Errorf("failed after %d attempts: %w", attempt+1, err)
		}

		notification.IncrementRetry()
		delay := d.backoff * time.Duration(1<<attempt)
		d.log.WarnContext(ctx, "Retrying notification delivery",
			"notification_id", notification.ID.String(), "attempt", attempt+1, "delay", delay.String(), "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// KafkaNotificationConsumer runs NumWorkers members of one consumer group
type KafkaNotificationConsumer struct {
	groups     []sarama.ConsumerGroup
	config     *ConsumerConfig
	dispatcher *Dispatcher
	log        *logger.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewKafkaNotificationConsumer(config *ConsumerConfig, emailService EmailService) (*KafkaNotificationConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Retry.Backoff = time.Duration(config.RetryBackoffMs) * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	workers := config.NumWorkers
	if workers < 1 {
		workers = 1
	}

	groups := make([]sarama.ConsumerGroup, 0, workers)
	for i := 0; i < workers; i++ {
		group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
		if err != nil {
			for _, g := range groups {
				g.Close()
			}
			return nil, fmt.Errorf("failed to create consumer group: %w", err)
		}
		groups = append(groups, group)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &KafkaNotificationConsumer{
		groups:     groups,
		config:     config,
		dispatcher: NewDispatcher(emailService, config.MaxRetries, config.RetryBackoffDuration),
		log:        logger.GetDefault().WithComponent("notifications"),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

func (knc *KafkaNotificationConsumer) StartConsumers(ctx context.Context) error {
	knc.log.Info("Starting notification consumers", "workers", len(knc.groups), "topics", knc.config.Topics)

	for i, group := range knc.groups {
		knc.wg.Add(2)
		go func(g sarama.ConsumerGroup) {
			defer knc.wg.Done()
			knc.handleErrors(g)
		}(group)
		go func(workerID int, g sarama.ConsumerGroup) {
			defer knc.wg.Done()
			knc.runWorker(ctx, workerID, g)
		}(i, group)
	}
	return nil
}

func (knc *KafkaNotificationConsumer) runWorker(ctx context.Context, workerID int, group sarama.ConsumerGroup) {
	handler := &ConsumerGroupHandler{workerID: workerID, dispatcher: knc.dispatcher, log: knc.log}

	for {
		select {
		case <-ctx.Done():
			return
		case <-knc.ctx.Done():
			return
		default:
		}

		if err := group.Consume(knc.ctx, knc.config.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			knc.log.Error("Consume failed", "worker", workerID, "error", err)
			time.Sleep(time.Second)
		}
	}
}

func (knc *KafkaNotificationConsumer) handleErrors(group sarama.ConsumerGroup) {
	for err := range group.Errors() {
		knc.log.Error("Consumer group error", "error", err)
	}
}

func (knc *KafkaNotificationConsumer) Stop() error {
	knc.cancel()

	var errs []error
	for _, group := range knc.groups {
		if err := group.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	knc.wg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("failed to close consumer group: %w", errors.Join(errs...))
	}
	knc.log.Info("Notification consumers stopped")
	return nil
}

func (knc *KafkaNotificationConsumer) HealthCheck(ctx context.Context) error {
	select {
	case <-knc.ctx.Done():
		return fmt.Errorf("consumer context is cancelled")
	default:
		if knc.dispatcher == nil || knc.dispatcher.email == nil {
			return fmt.Errorf("email service not configured")
		}
		return nil
	}
}

type ConsumerGroupHandler struct {
	workerID   int
	dispatcher *Dispatcher
	log        *logger.Logger
}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.log.Debug("Consumer group session started", "worker", h.workerID)
	return nil
}

func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.log.Debug("Consumer group session ended", "worker", h.workerID)
	return nil
}

func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			err := h.dispatcher.Process(session.Context(), message.Value)
			switch {
			case err == nil:
				session.MarkMessage(message, "")
			case errors.Is(err, ErrMalformedNotification):
				h.log.Error("Dropping malformed notification",
					"worker", h.workerID, "partition", message.Partition, "offset", message.Offset, "error", err)
				session.MarkMessage(message, "")
			default:
				// Offsets are cumulative: marking a later message would skip this one for good.
				// Ending the claim ends the session and the next one resumes from this offset.
				h.log.Error("Failed to process notification, redelivering from offset",
					"worker", h.workerID, "partition", message.Partition, "offset", message.Offset, "error", err)
				return fmt.Errorf("notification at %s/%d offset %d not delivered: %w",
					message.Topic, message.Partition, message.Offset, err)
			}

		case <-session.Context().Done():
			return nil
		}
	}
}
