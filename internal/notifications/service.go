package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"homestay/internal/bookings"
	"homestay/internal/shared/config"
	"homestay/pkg/logger"
)

// Service owns the notification pipeline: email delivery, the producer used by
// the booking engine and, when Kafka is enabled, the consumer group.
type Service struct {
	producer NotificationProducer
	consumer NotificationConsumer
	email    EmailService
	notifier *BookingNotifier
	log      *logger.Logger

	mu        sync.Mutex
	isRunning bool
}

// NewService wires the pipeline from configuration. Without SMTP settings mail
// is logged; without Kafka it is delivered in-process.
func NewService(cfg *config.Config, hotels HotelLookup) (*Service, error) {
	log := logger.GetDefault().WithComponent("notifications")

	var email EmailService = NewLogEmailService()
	if cfg.Email.SMTPHost != "" {
		smtpService, err := NewSMTPEmailService(NewSMTPConfig(cfg.Email))
		if err != nil {
			return nil, err
		}
		email = smtpService
	}

	svc := &Service{email: email, log: log}

	if !cfg.Kafka.Enabled {
		svc.producer = NewDirectProducer(email)
		svc.notifier = NewBookingNotifier(svc.producer, hotels)
		log.Info("Kafka disabled, booking notifications delivered in-process")
		return svc, nil
	}

	producer, err := NewKafkaNotificationProducer(NewKafkaProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumer, err := NewKafkaNotificationConsumer(NewConsumerConfig(cfg.Kafka), email)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	svc.producer = producer
	svc.consumer = consumer
	svc.notifier = NewBookingNotifier(producer, hotels)
	return svc, nil
}

// Notifier is handed to the booking service
func (s *Service) Notifier() bookings.Notifier {
	return s.notifier
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}
	if s.consumer != nil {
		if err := s.consumer.StartConsumers(ctx); err != nil {
			return fmt.Errorf("failed to start consumers: %w", err)
		}
	}
	s.isRunning = true
	s.log.Info("Notification service started")
	return nil
}

func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	var errs []error
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.producer.Close(); err != nil {
		errs = append(errs, err)
	}

	s.isRunning = false
	s.log.Info("Notification service stopped")
	return errors.Join(errs...)
}

func (s *Service) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()

	if !running {
		return fmt.Errorf("notification service is not running")
	}
	if checker, ok := s.producer.(interface{ HealthCheck(context.Context) error }); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			return fmt.Errorf("producer health check failed: %w", err)
		}
	}
	if s.consumer != nil {
		if err := s.consumer.HealthCheck(ctx); err != nil {
			return fmt.Errorf("consumer health check failed: %w", err)
		}
	}
	return nil
}
