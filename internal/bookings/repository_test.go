package bookings

import (
	"errors"
	"fmt"
	"testing"

	"homestay/internal/shared/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestAsAppError(t *testing.T) {
	assert.NoError(t, asAppError(nil, "failed"))

	cause := errors.New("connection refused")
	err := asAppError(cause, "failed to reserve 100% of the stay")
	assert.True(t, errors.Is(err, apperr.ErrDependencyFailure))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to reserve 100% of the stay", apperr.Message(err))

	err = asAppError(fmt.Errorf("tx: %w", apperr.NotFound("booking not found")), "failed")
	assert.True(t, errors.Is(err, apperr.ErrNotFoundOrIllegalState))
	assert.Equal(t, "booking not found", apperr.Message(err))

	overlap := &pgconn.PgError{Code: pgExclusionViolation, ConstraintName: "bookings_no_overlap"}
	err = asAppError(fmt.Errorf("insert: %w", overlap), "failed")
	assert.True(t, errors.Is(err, apperr.ErrDatesUnavailable))
	assert.False(t, apperr.Retryable(err))
}
