package payout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentMethod is how a broker was paid
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

var paymentMethodLabels = map[string]PaymentMethod{
	"bank transfer": PaymentMethodBankTransfer,
	"bank":          PaymentMethodBankTransfer,
	"transfer":      PaymentMethodBankTransfer,
	"wire":          PaymentMethodBankTransfer,
	"eft":           PaymentMethodBankTransfer,
	"havale":        PaymentMethodBankTransfer,
	"cash":          PaymentMethodCash,
	"check":         PaymentMethodCheck,
	"cheque":        PaymentMethodCheck,
	"other":         PaymentMethodOther,
}

// ParsePaymentMethod accepts enum codes and spreadsheet labels.
// An empty value means bank transfer.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return PaymentMethodBankTransfer, nil
	}
	if m := PaymentMethod(strings.ToUpper(trimmed)); m.IsValid() {
		return m, nil
	}
	label := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(trimmed, "_", " ")), " "))
	if m, ok := paymentMethodLabels[label]; ok {
		return m, nil
	}
	return "", shared.NewValidationError("paymentMethod", fmt.Sprintf("unknown payment method %q", s))
}

// PaymentSource records which flow created a payment
type PaymentSource string

const (
	PaymentSourceManual PaymentSource = "MANUAL"
	PaymentSourceBulk   PaymentSource = "BULK"
)

// PaymentMeta is the descriptive part of a payment
type PaymentMeta struct {
	Method    PaymentMethod
	Reference string
	Note      string
}

// PaymentRecord is one settlement event covering one or more items
type PaymentRecord struct {
	shared.TenantAggregateRoot
	BrokerID  uuid.UUID
	Amount    valueobject.Money
	Method    PaymentMethod
	Reference string
	Note      string
	Source    PaymentSource
	PaidAt    time.Time
	Items     []ItemRef
}

// PaymentRepository persists payment records
type PaymentRepository interface {
	Create(ctx context.Context, record *PaymentRecord) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentRecord, error)
	ListByBroker(ctx context.Context, tenantID, brokerID uuid.UUID, filter shared.Filter) ([]PaymentRecord, int64, error)
}

// Settler marks items paid and stores their payment record as one unit of
// work. A stale item (no longer eligible) must fail with a concurrency conflict
// and leave nothing applied.
type Settler interface {
	Settle(ctx context.Context, record *PaymentRecord) error
}
