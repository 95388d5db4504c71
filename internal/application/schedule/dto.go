package schedule

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/schedule"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of schedule dates
const DateLayout = "2006-01-02"

// LumpPaymentRequest is an interim or delivery payment in a request
type LumpPaymentRequest struct {
	Month  int             `json:"month" binding:"required,min=1"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" binding:"max=500"`
}

// ScheduleRequest carries financing terms. Amounts are in major units of
// Currency; an empty currency uses the configured default.
type ScheduleRequest struct {
	Principal           decimal.Decimal      `json:"principal"`
	DownPayment         decimal.Decimal      `json:"down_payment"`
	MonthlyInterestRate decimal.Decimal      `json:"monthly_interest_rate"`
	InstallmentCount    int                  `json:"installment_count" binding:"min=0,max=600"`
	StartDate           string               `json:"start_date" binding:"required"`
	Currency            string               `json:"currency" binding:"omitempty,currency_code"`
	InterimPayments     []LumpPaymentRequest `json:"interim_payments" binding:"omitempty,dive"`
	DeliveryPayment     *LumpPaymentRequest  `json:"delivery_payment"`
}

// ToDomain converts the request into generator input
func (r ScheduleRequest) ToDomain(defaultCurrency valueobject.Currency) (schedule.Request, error) {
	cur := defaultCurrency
	if r.Currency != "" {
		parsed, err := valueobject.ParseCurrency(r.Currency)
		if err != nil {
			return schedule.Request{}, shared.NewValidationError("currency", err.Error())
		}
		cur = parsed
	}

	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return schedule.Request{}, shared.NewValidationError("startDate", fmt.Sprintf("start date must be formatted %s", DateLayout))
	}

	money := func(field string, d decimal.Decimal) (valueobject.Money, error) {
		m, err := valueobject.NewMoney(d, cur)
		if err != nil {
			return valueobject.Money{}, shared.NewValidationError(field, err.Error())
		}
		return m, nil
	}

	principal, err := money("principal", r.Principal)
	if err != nil {
		return schedule.Request{}, err
	}
	down, err := money("downPaymentAmount", r.DownPayment)
	if err != nil {
		return schedule.Request{}, err
	}
	rate, err := valueobject.NewPercentage(r.MonthlyInterestRate)
	if err != nil {
		return schedule.Request{}, shared.NewValidationError("monthlyInterestRate", err.Error())
	}

	req := schedule.Request{
		Principal:           principal,
		DownPayment:         down,
		MonthlyInterestRate: rate,
		InstallmentCount:    r.InstallmentCount,
		StartDate:           start,
		Currency:            cur,
	}
	for i, p := range r.InterimPayments {
		amount, err := money(fmt.Sprintf("interimPayments[%d].amount", i), p.Amount)
		if err != nil {
			return schedule.Request{}, err
		}
		req.InterimPayments = append(req.InterimPayments, schedule.LumpPayment{Month: p.Month, Amount: amount, Note: p.Note})
	}
	if r.DeliveryPayment != nil {
		amount, err := money("deliveryPayment.amount", r.DeliveryPayment.Amount)
		if err != nil {
			return schedule.Request{}, err
		}
		req.DeliveryPayment = &schedule.LumpPayment{Month: r.DeliveryPayment.Month, Amount: amount, Note: r.DeliveryPayment.Note}
	}
	return req, nil
}

// ObligationResponse is one dated payment
type ObligationResponse struct {
	ID               *uuid.UUID        `json:"id,omitempty"`
	Kind             string            `json:"kind"`
	Sequence         int               `json:"sequence,omitempty"`
	DueDate          string            `json:"due_date"`
	Amount           valueobject.Money `json:"amount"`
	PrincipalPortion valueobject.Money `json:"principal_portion"`
	InterestPortion  valueobject.Money `json:"interest_portion"`
	Description      string            `json:"description"`
	Note             string            `json:"note,omitempty"`
}

func toObligationResponse(o schedule.Obligation) ObligationResponse {
	return ObligationResponse{
		Kind:             o.Kind.String(),
		Sequence:         o.Sequence,
		DueDate:          o.DueDate.Format(DateLayout),
		Amount:           o.Amount,
		PrincipalPortion: o.PrincipalPortion,
		InterestPortion:  o.InterestPortion,
		Description:      o.Description,
		Note:             o.Note,
	}
}

// ScheduleResponse is a generated schedule
type ScheduleResponse struct {
	Currency           string               `json:"currency"`
	Items              []ObligationResponse `json:"items"`
	AmortizedRemainder valueobject.Money    `json:"amortized_remainder"`
	TotalInterest      valueobject.Money    `json:"total_interest"`
	GrandTotal         valueobject.Money    `json:"grand_total"`
	Reconciled         bool                 `json:"reconciled"`
}

// ToScheduleResponse converts a generator result
func ToScheduleResponse(r *schedule.Result) ScheduleResponse {
	items := make([]ObligationResponse, len(r.Items))
	for i, o := range r.Items {
		items[i] = toObligationResponse(o)
	}
	return ScheduleResponse{
		Currency:           r.Currency.String(),
		Items:              items,
		AmortizedRemainder: r.AmortizedRemainder,
		TotalInterest:      r.TotalInterest,
		GrandTotal:         r.GrandTotal,
		Reconciled:         r.Reconciles(),
	}
}

// PlanResponse is a contract's persisted payment plan
type PlanResponse struct {
	ID                  uuid.UUID            `json:"id"`
	ContractID          uuid.UUID            `json:"contract_id"`
	Currency            string               `json:"currency"`
	Principal           valueobject.Money    `json:"principal"`
	DownPayment         valueobject.Money    `json:"down_payment"`
	MonthlyInterestRate string               `json:"monthly_interest_rate"`
	InstallmentCount    int                  `json:"installment_count"`
	StartDate           string               `json:"start_date"`
	TotalInterest       valueobject.Money    `json:"total_interest"`
	GrandTotal          valueobject.Money    `json:"grand_total"`
	Items               []ObligationResponse `json:"items"`
	CreatedAt           time.Time            `json:"created_at"`
}

// ToPlanResponse converts a persisted plan
func ToPlanResponse(p *schedule.PaymentPlan) PlanResponse {
	items := make([]ObligationResponse, len(p.Items))
	for i, it := range p.Items {
		id := it.ID
		items[i] = toObligationResponse(it.Obligation)
		items[i].ID = &id
	}
	return PlanResponse{
		ID:                  p.ID,
		ContractID:          p.ContractID,
		Currency:            p.Currency.String(),
		Principal:           p.Principal,
		DownPayment:         p.DownPayment,
		MonthlyInterestRate: p.MonthlyInterestRate.String(),
		InstallmentCount:    p.InstallmentCount,
		StartDate:           p.StartDate.Format(DateLayout),
		TotalInterest:       p.TotalInterest,
		GrandTotal:          p.GrandTotal,
		Items:               items,
		CreatedAt:           p.CreatedAt,
	}
}
