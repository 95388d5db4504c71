package commission

import (
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionRecord(t *testing.T) {
	res := &Resolution{Amount: valueobject.MustMoney("30000", valueobject.TRY), Basis: Basis{ModelType: ModelTypeFlatPercent}}

	t.Run("created eligible", func(t *testing.T) {
		r, err := NewCommissionRecord(uuid.New(), uuid.New(), uuid.New(), uuid.New(), nil, res)
		require.NoError(t, err)
		assert.Equal(t, RecordStatusEligible, r.Status)
		assert.Nil(t, r.PaidAt)
	})

	t.Run("requires broker and sale", func(t *testing.T) {
		_, err := NewCommissionRecord(uuid.New(), uuid.Nil, uuid.New(), uuid.New(), nil, res)
		assert.True(t, shared.IsValidationError(err))
		_, err = NewCommissionRecord(uuid.New(), uuid.New(), uuid.Nil, uuid.New(), nil, res)
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("paid once", func(t *testing.T) {
		r, err := NewCommissionRecord(uuid.New(), uuid.New(), uuid.New(), uuid.New(), nil, res)
		require.NoError(t, err)

		paymentID := uuid.New()
		at := time.Now()
		require.NoError(t, r.MarkPaid(paymentID, at))
		assert.Equal(t, RecordStatusPaid, r.Status)
		assert.Equal(t, paymentID, *r.PaymentID)

		assert.ErrorIs(t, r.MarkPaid(uuid.New(), at), shared.ErrInvalidState)
	})
}

func TestIncentiveRecord(t *testing.T) {
	_, err := NewIncentiveRecord(uuid.New(), uuid.New(), valueobject.Zero(valueobject.TRY), "launch bonus")
	assert.True(t, shared.IsValidationError(err))

	r, err := NewIncentiveRecord(uuid.New(), uuid.New(), valueobject.MustMoney("5000", valueobject.TRY), "launch bonus")
	require.NoError(t, err)
	assert.Equal(t, RecordStatusEligible, r.Status)
}
