package schedule

import (
	"time"

	"github.com/estate/backend/internal/domain/shared/valueobject"
)

// ObligationKind classifies one scheduled cash flow
type ObligationKind string

const (
	KindDownPayment     ObligationKind = "DOWN_PAYMENT"
	KindInterimPayment  ObligationKind = "INTERIM_PAYMENT"
	KindInstallment     ObligationKind = "INSTALLMENT"
	KindDeliveryPayment ObligationKind = "DELIVERY_PAYMENT"
	KindOther           ObligationKind = "OTHER"
)

// IsValid checks if the kind is one of the known kinds
func (k ObligationKind) IsValid() bool {
	switch k {
	case KindDownPayment, KindInterimPayment, KindInstallment, KindDeliveryPayment, KindOther:
		return true
	}
	return false
}

// String returns the string representation
func (k ObligationKind) String() string {
	return string(k)
}

// rank orders obligations that fall due on the same day
func (k ObligationKind) rank() int {
	switch k {
	case KindDownPayment:
		return 0
	case KindInterimPayment:
		return 1
	case KindInstallment:
		return 2
	case KindDeliveryPayment:
		return 3
	default:
		return 4
	}
}

// Obligation is one dated payment in a schedule. It has no identity until
// a caller persists it as part of a PaymentPlan.
type Obligation struct {
	Kind     ObligationKind
	Sequence int
	DueDate  time.Time
	Amount   valueobject.Money
	// PrincipalPortion and InterestPortion sum to Amount. Only installments carry interest.
	PrincipalPortion valueobject.Money
	InterestPortion  valueobject.Money
	Description      string
	Note             string
}

// LumpPayment is a date-specific extra payment outside the installment cadence
type LumpPayment struct {
	Month  int
	Amount valueobject.Money
	Note   string
}

// Request carries the financing terms of one sale
type Request struct {
	Principal           valueobject.Money
	DownPayment         valueobject.Money
	MonthlyInterestRate valueobject.Percentage
	InstallmentCount    int
	StartDate           time.Time
	Currency            valueobject.Currency
	InterimPayments     []LumpPayment
	DeliveryPayment     *LumpPayment
}

// Result is the generated schedule with its aggregate totals
type Result struct {
	Currency           valueobject.Currency
	Items              []Obligation
	AmortizedRemainder valueobject.Money
	TotalInterest      valueobject.Money
	GrandTotal         valueobject.Money
}

// ItemsTotal sums the amounts of all obligations
func (r *Result) ItemsTotal() valueobject.Money {
	var total int64
	for _, item := range r.Items {
		total += item.Amount.Minor()
	}
	return valueobject.NewMoneyFromMinor(total, r.Currency)
}

// Reconciles reports whether the obligations sum exactly to GrandTotal
func (r *Result) Reconciles() bool {
	return r.ItemsTotal().Equals(r.GrandTotal)
}

// CountByKind returns how many obligations of kind the schedule holds
func (r *Result) CountByKind(kind ObligationKind) int {
	n := 0
	for _, item := range r.Items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}
