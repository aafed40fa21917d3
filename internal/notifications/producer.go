package notifications

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"homestay/internal/shared/config"
	"homestay/pkg/logger"

	"github.com/IBM/sarama"
)

// NotificationProducer publishes booking notifications to the broker
type NotificationProducer interface {
	PublishNotification(ctx context.Context, notification *BookingNotification) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka notification producer
type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	RetryMax          int
	TimeoutMs         int
	RequiredAcks      sarama.RequiredAcks
	CompressionType   sarama.CompressionCodec
	IdempotentWrites  bool
	MaxMessageBytes   int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "booking-notifications",
		RetryMax:          3,
		TimeoutMs:         10000,
		RequiredAcks:      sarama.WaitForAll,
		CompressionType:   sarama.CompressionSnappy,
		IdempotentWrites:  true,
		MaxMessageBytes:   1000000,
	}
}

// NewKafkaProducerConfig applies the application's Kafka settings over the defaults
func NewKafkaProducerConfig(cfg config.KafkaConfig) *KafkaProducerConfig {
	producerConfig := DefaultKafkaProducerConfig()
	if len(cfg.Brokers) > 0 {
		producerConfig.Brokers = cfg.Brokers
	}
	if cfg.NotificationTopic != "" {
		producerConfig.NotificationTopic = cfg.NotificationTopic
	}
	return producerConfig
}

// KafkaNotificationProducer handles publishing notifications to Kafka
type KafkaNotificationProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

// NewKafkaNotificationProducer creates a new Kafka notification producer
func NewKafkaNotificationProducer(config *KafkaProducerConfig) (*KafkaNotificationProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner routes all events of a booking to one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return NewKafkaNotificationProducerWithClient(producer, config), nil
}

// NewKafkaNotificationProducerWithClient wraps an existing sarama producer
func NewKafkaNotificationProducerWithClient(producer sarama.SyncProducer, config *KafkaProducerConfig) *KafkaNotificationProducer {
	log := logger.GetDefault().WithComponent("notifications")
	log.Info("Kafka notification producer created", "topic", config.NotificationTopic, "brokers", config.Brokers)
	return &KafkaNotificationProducer{
		producer: producer,
		config:   config,
		log:      log,
	}
}

// PublishNotification publishes a single notification to Kafka
func (knp *KafkaNotificationProducer) PublishNotification(ctx context.Context, notification *BookingNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     knp.config.NotificationTopic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := knp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	knp.log.DebugContext(ctx, "Notification published",
		"topic", knp.config.NotificationTopic,
		"partition", partition,
		"offset", offset,
		"type", string(notification.Type),
		"booking_id", notification.BookingID.String(),
	)
	return nil
}

// createHeaders lets consumers route without decoding the payload
func createHeaders(notification *BookingNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("priority"), Value: []byte(notification.Priority)},
		{Key: []byte("booking_id"), Value: []byte(notification.BookingID.String())},
		{Key: []byte("hotel_id"), Value: []byte(notification.HotelID.String())},
		{Key: []byte("recipient_id"), Value: []byte(notification.RecipientID.String())},
		{Key: []byte("max_retries"), Value: []byte(strconv.Itoa(notification.MaxRetries))},
		{Key: []byte("producer"), Value: []byte("homestay-bookings")},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}

	if notification.ExpiresAt != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("expires_at"),
			Value: []byte(notification.ExpiresAt.Format(time.RFC3339)),
		})
	}

	return headers
}

// Close closes the Kafka producer
func (knp *KafkaNotificationProducer) Close() error {
	if knp.producer == nil {
		return nil
	}
	if err := knp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	knp.log.Info("Kafka notification producer closed")
	return nil
}

// HealthCheck validates the producer configuration; broker reachability surfaces on first send
func (knp *KafkaNotificationProducer) HealthCheck(ctx context.Context) error {
	if knp.producer == nil {
		return fmt.Errorf("health check failed - producer is nil")
	}
	if knp.config.NotificationTopic == "" {
		return fmt.Errorf("health check failed - notification topic not configured")
	}
	return nil
}
