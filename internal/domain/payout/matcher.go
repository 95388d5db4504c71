package payout

import (
	"fmt"
	"strings"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SettleManual builds the payment record for a caller-selected set of a
// broker's eligible items. The amount is always the full sum of the items.
func SettleManual(tenantID, brokerID uuid.UUID, selected []EligibleItem, meta PaymentMeta, now time.Time) (*PaymentRecord, error) {
	if brokerID == uuid.Nil {
		return nil, shared.NewValidationError("brokerId", "broker ID is required")
	}
	if len(selected) == 0 {
		return nil, shared.NewValidationError("items", "select at least one eligible item")
	}
	if !meta.Method.IsValid() {
		return nil, shared.NewValidationError("paymentMethod", fmt.Sprintf("unknown payment method %q", meta.Method))
	}

	currency := selected[0].Amount.Currency()
	seen := make(map[ItemRef]bool, len(selected))
	refs := make([]ItemRef, 0, len(selected))
	var total int64

	for _, item := range SortOldestFirst(selected) {
		if item.BrokerID != brokerID {
			return nil, shared.NewValidationError("items", fmt.Sprintf("item %s does not belong to the broker", item.Ref))
		}
		if item.Amount.Currency() != currency {
			return nil, shared.NewValidationError("items", "selected items must share one currency")
		}
		if seen[item.Ref] {
			return nil, shared.NewValidationError("items", fmt.Sprintf("item %s selected twice", item.Ref))
		}
		seen[item.Ref] = true
		refs = append(refs, item.Ref)
		total += item.Amount.Minor()
	}

	return newPayment(tenantID, brokerID, valueobject.NewMoneyFromMinor(total, currency), meta, PaymentSourceManual, refs, now), nil
}

func newPayment(tenantID, brokerID uuid.UUID, amount valueobject.Money, meta PaymentMeta, source PaymentSource, refs []ItemRef, now time.Time) *PaymentRecord {
	return &PaymentRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BrokerID:            brokerID,
		Amount:              amount,
		Method:              meta.Method,
		Reference:           strings.TrimSpace(meta.Reference),
		Note:                strings.TrimSpace(meta.Note),
		Source:              source,
		PaidAt:              now,
		Items:               refs,
	}
}

// Allocation is the outcome of matching one payment amount
type Allocation struct {
	Items       []EligibleItem
	Allocated   valueobject.Money
	Unallocated valueobject.Money
}

// Allocate settles whole items oldest first. It takes the longest ordered
// prefix whose cumulative sum does not exceed amount and stops at the first
// item that would overshoot; later, smaller items are not considered. Items
// in another currency are ignored.
func Allocate(items []EligibleItem, amount valueobject.Money) Allocation {
	var taken []EligibleItem
	remaining := amount.Minor()

	for _, item := range SortOldestFirst(items) {
		if item.Amount.Currency() != amount.Currency() {
			continue
		}
		if item.Amount.Minor() > remaining {
			break
		}
		remaining -= item.Amount.Minor()
		taken = append(taken, item)
	}

	return Allocation{
		Items:       taken,
		Allocated:   valueobject.NewMoneyFromMinor(amount.Minor()-remaining, amount.Currency()),
		Unallocated: valueobject.NewMoneyFromMinor(remaining, amount.Currency()),
	}
}
