package payout

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/payout"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	csvimport "github.com/estate/backend/internal/infrastructure/import"
	"github.com/google/uuid"
)

// ItemRefRequest selects one eligible item
type ItemRefRequest struct {
	Type string    `json:"item_type" binding:"required,oneof=COMMISSION INCENTIVE"`
	ID   uuid.UUID `json:"item_id" binding:"required"`
}

// ManualPaymentRequest settles the selected items of one broker
type ManualPaymentRequest struct {
	BrokerID  uuid.UUID        `json:"broker_id" binding:"required"`
	Items     []ItemRefRequest `json:"items" binding:"required,min=1,dive"`
	Method    string           `json:"payment_method"`
	Reference string           `json:"reference_no" binding:"max=100"`
	Note      string           `json:"note" binding:"max=1000"`
}

func (r ManualPaymentRequest) refs() ([]payout.ItemRef, error) {
	refs := make([]payout.ItemRef, len(r.Items))
	for i, it := range r.Items {
		ref := payout.ItemRef{Type: payout.ItemType(it.Type), ID: it.ID}
		if !ref.Type.IsValid() {
			return nil, shared.NewValidationError(fmt.Sprintf("items[%d].itemType", i), fmt.Sprintf("unknown item type %q", it.Type))
		}
		refs[i] = ref
	}
	return refs, nil
}

// EligibleItemResponse is an unpaid commission or incentive
type EligibleItemResponse struct {
	Type      string            `json:"item_type"`
	ID        uuid.UUID         `json:"item_id"`
	Amount    valueobject.Money `json:"amount"`
	CreatedAt time.Time         `json:"created_at"`
}

// EligibleItemsResponse lists a broker's eligible items oldest first with
// their total per currency
type EligibleItemsResponse struct {
	BrokerID uuid.UUID              `json:"broker_id"`
	Items    []EligibleItemResponse `json:"items"`
	Totals   []valueobject.Money    `json:"totals"`
}

// PaymentResponse is a settled payment
type PaymentResponse struct {
	ID        uuid.UUID         `json:"id"`
	BrokerID  uuid.UUID         `json:"broker_id"`
	Amount    valueobject.Money `json:"amount"`
	Method    string            `json:"payment_method"`
	Reference string            `json:"reference_no,omitempty"`
	Note      string            `json:"note,omitempty"`
	Source    string            `json:"source"`
	PaidAt    time.Time         `json:"paid_at"`
	Items     []payout.ItemRef  `json:"items"`
}

// ToPaymentResponse converts a domain payment
func ToPaymentResponse(p *payout.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		BrokerID:  p.BrokerID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Reference: p.Reference,
		Note:      p.Note,
		Source:    string(p.Source),
		PaidAt:    p.PaidAt,
		Items:     p.Items,
	}
}

// ImportResponse is the outcome of a bulk payment file. Rows that could not
// be read are listed in ParseErrors and also counted as error rows.
type ImportResponse struct {
	payout.BatchResult
	FileName         string               `json:"file_name"`
	TotalRows        int                  `json:"total_rows"`
	ParseErrors      []csvimport.RowError `json:"parse_errors,omitempty"`
	IsTruncated      bool                 `json:"is_truncated,omitempty"`
	TotalParseErrors int                  `json:"total_parse_errors,omitempty"`
}
