package schedule

import (
	"fmt"
	"sort"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Generate turns financing terms into a dated schedule of payment obligations.
//
// The down payment is clamped to the principal, and interim/delivery lumps are
// clamped in due-date order to whatever principal is still uncovered, so no
// obligation is ever negative. Interest accrues flat: the monthly rate applies
// to the amortized remainder once per installment. Items are ordered by due
// date; same-day items follow ObligationKind order.
//
// GrandTotal always equals Principal + TotalInterest and the items sum to it
// exactly.
func Generate(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cur := req.Currency
	items := make([]Obligation, 0, req.InstallmentCount+len(req.InterimPayments)+2)

	down := valueobject.NewMoneyFromMinor(min(req.DownPayment.Minor(), req.Principal.Minor()), cur)
	items = append(items, Obligation{
		Kind:             KindDownPayment,
		Sequence:         1,
		DueDate:          req.StartDate,
		Amount:           down,
		PrincipalPortion: down,
		InterestPortion:  valueobject.Zero(cur),
		Description:      "Down payment",
	})

	uncovered := req.Principal.Minor() - down.Minor()
	for _, lump := range req.lumps() {
		amount := lump.Amount.Minor()
		if amount > uncovered {
			amount = uncovered
		}
		uncovered -= amount

		m := valueobject.NewMoneyFromMinor(amount, cur)
		items = append(items, Obligation{
			Kind:             lump.kind,
			Sequence:         lump.sequence,
			DueDate:          AddMonths(req.StartDate, lump.Month),
			Amount:           m,
			PrincipalPortion: m,
			InterestPortion:  valueobject.Zero(cur),
			Description:      lump.description(),
			Note:             lump.Note,
		})
	}

	remainder := valueobject.NewMoneyFromMinor(uncovered, cur)
	if req.InstallmentCount == 0 && remainder.IsPositive() {
		return nil, shared.NewValidationError("installmentCount",
			fmt.Sprintf("installment count must be positive to schedule the remaining %s", remainder))
	}

	totalInterest := valueobject.Zero(cur)
	if req.InstallmentCount > 0 {
		installments, interest, err := buildInstallments(req, remainder)
		if err != nil {
			return nil, err
		}
		items = append(items, installments...)
		totalInterest = interest
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].DueDate.Equal(items[j].DueDate) {
			return items[i].DueDate.Before(items[j].DueDate)
		}
		return items[i].Kind.rank() < items[j].Kind.rank()
	})

	grandTotal, err := req.Principal.Add(totalInterest)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Currency:           cur,
		Items:              items,
		AmortizedRemainder: remainder,
		TotalInterest:      totalInterest,
		GrandTotal:         grandTotal,
	}
	if !result.Reconciles() {
		return nil, shared.NewInvalidStateError(fmt.Sprintf(
			"schedule items total %s does not match grand total %s", result.ItemsTotal(), grandTotal))
	}
	return result, nil
}

func buildInstallments(req Request, remainder valueobject.Money) ([]Obligation, valueobject.Money, error) {
	n := req.InstallmentCount

	factor := req.MonthlyInterestRate.Decimal().Div(decimal.NewFromInt(100)).Mul(decimal.NewFromInt(int64(n)))
	totalInterest, err := remainder.MulRate(factor)
	if err != nil {
		return nil, valueobject.Money{}, shared.NewValidationError("monthlyInterestRate",
			"interest on these terms exceeds the supported amount range")
	}

	principalParts, err := remainder.Split(n)
	if err != nil {
		return nil, valueobject.Money{}, err
	}
	interestParts, err := totalInterest.Split(n)
	if err != nil {
		return nil, valueobject.Money{}, err
	}

	out := make([]Obligation, n)
	for i := range out {
		amount, err := principalParts[i].Add(interestParts[i])
		if err != nil {
			return nil, valueobject.Money{}, err
		}
		out[i] = Obligation{
			Kind:             KindInstallment,
			Sequence:         i + 1,
			DueDate:          AddMonths(req.StartDate, i+1),
			Amount:           amount,
			PrincipalPortion: principalParts[i],
			InterestPortion:  interestParts[i],
			Description:      fmt.Sprintf("Installment %d/%d", i+1, n),
		}
	}
	return out, totalInterest, nil
}

type lump struct {
	LumpPayment
	kind     ObligationKind
	sequence int
}

func (l lump) description() string {
	if l.kind == KindDeliveryPayment {
		return "Delivery payment"
	}
	return fmt.Sprintf("Interim payment (month %d)", l.Month)
}

// lumps returns interim and delivery payments in due-date order
func (r Request) lumps() []lump {
	out := make([]lump, 0, len(r.InterimPayments)+1)
	for i, p := range r.InterimPayments {
		out = append(out, lump{LumpPayment: p, kind: KindInterimPayment, sequence: i + 1})
	}
	if r.DeliveryPayment != nil {
		out = append(out, lump{LumpPayment: *r.DeliveryPayment, kind: KindDeliveryPayment, sequence: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].kind.rank() < out[j].kind.rank()
	})
	return out
}
