package payments

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummyProcessor(t *testing.T) {
	p := NewDummyProcessor()
	id := uuid.New()

	receipt, err := p.Charge(context.Background(), id, 5000)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, receipt.Status)
	assert.Equal(t, 5000.0, receipt.Amount)
	assert.True(t, strings.HasPrefix(receipt.TransactionID, "TXN_"))

	refund, err := p.Refund(context.Background(), id, 5000)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, refund.Status)
	assert.True(t, strings.HasPrefix(refund.TransactionID, "RFD_"))

	_, err = p.Charge(context.Background(), id, -1)
	assert.Error(t, err)
}
