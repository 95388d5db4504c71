package schedule

import (
	"fmt"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
)

// MaxInstallments bounds the installment count accepted by Generate
const MaxInstallments = 600

// Validate checks the request before any computation happens
func (r Request) Validate() error {
	if !r.Currency.IsValid() {
		return shared.NewValidationError("currency", fmt.Sprintf("unknown currency %q", r.Currency))
	}
	if err := r.checkCurrency("principal", r.Principal); err != nil {
		return err
	}
	if !r.Principal.IsPositive() {
		return shared.NewValidationError("principal", "principal must be positive")
	}
	if err := r.checkCurrency("downPaymentAmount", r.DownPayment); err != nil {
		return err
	}
	if r.DownPayment.IsNegative() {
		return shared.NewValidationError("downPaymentAmount", "down payment cannot be negative")
	}
	if r.InstallmentCount < 0 {
		return shared.NewValidationError("installmentCount", "installment count cannot be negative")
	}
	if r.InstallmentCount > MaxInstallments {
		return shared.NewValidationError("installmentCount", fmt.Sprintf("installment count cannot exceed %d", MaxInstallments))
	}
	if r.MonthlyInterestRate.Decimal().IsNegative() {
		return shared.NewValidationError("monthlyInterestRate", "interest rate cannot be negative")
	}
	if !r.MonthlyInterestRate.AtMostHundred() {
		return shared.NewValidationError("monthlyInterestRate", "monthly interest rate cannot exceed 100")
	}
	if r.StartDate.IsZero() {
		return shared.NewValidationError("startDate", "start date is required")
	}
	for i, p := range r.InterimPayments {
		if err := r.checkLump(fmt.Sprintf("interimPayments[%d]", i), p); err != nil {
			return err
		}
	}
	if r.DeliveryPayment != nil {
		if err := r.checkLump("deliveryPayment", *r.DeliveryPayment); err != nil {
			return err
		}
	}
	return nil
}

func (r Request) checkLump(field string, p LumpPayment) error {
	if p.Month < 1 {
		return shared.NewValidationError(field+".month", "month offset must be at least 1")
	}
	if err := r.checkCurrency(field+".amount", p.Amount); err != nil {
		return err
	}
	if p.Amount.IsNegative() {
		return shared.NewValidationError(field+".amount", "amount cannot be negative")
	}
	return nil
}

func (r Request) checkCurrency(field string, m valueobject.Money) error {
	if m.Currency() == "" && m.IsZero() {
		return nil
	}
	if m.Currency() != r.Currency {
		return shared.NewValidationError(field,
			fmt.Sprintf("amount currency %s does not match schedule currency %s", m.Currency(), r.Currency))
	}
	return nil
}
