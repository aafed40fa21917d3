// Package payments holds the payment capability used by the booking engine.
// Only a simulated processor exists; gateway integration is not part of
// this service.
package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// Receipt is the processor's answer to a charge or refund
type Receipt struct {
	TransactionID string
	Amount        float64
	Status        Status
	ProcessedAt   time.Time
}

type Processor interface {
	Charge(ctx context.Context, bookingID uuid.UUID, amount float64) (*Receipt, error)
	Refund(ctx context.Context, bookingID uuid.UUID, amount float64) (*Receipt, error)
}

// DummyProcessor approves every charge and refund
type DummyProcessor struct {
	now func() time.Time
}

func NewDummyProcessor() *DummyProcessor {
	return &DummyProcessor{now: time.Now}
}

func (p *DummyProcessor) Charge(ctx context.Context, bookingID uuid.UUID, amount float64) (*Receipt, error) {
	if amount < 0 {
		return nil, fmt.Errorf("negative charge amount %.2f", amount)
	}
	return &Receipt{
		TransactionID: generateTransactionID("TXN"),
		Amount:        amount,
		Status:        StatusPaid,
		ProcessedAt:   p.now().UTC(),
	}, nil
}

func (p *DummyProcessor) Refund(ctx context.Context, bookingID uuid.UUID, amount float64) (*Receipt, error) {
	if amount < 0 {
		return nil, fmt.Errorf("negative refund amount %.2f", amount)
	}
	return &Receipt{
		TransactionID: generateTransactionID("RFD"),
		Amount:        amount,
		Status:        StatusRefunded,
		ProcessedAt:   p.now().UTC(),
	}, nil
}

func generateTransactionID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().Unix(), uuid.New().String()[:8])
}
