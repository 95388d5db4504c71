package payout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BulkRow is one line of a bulk payment import:
// Broker Email | Payment Amount | Payment Method | Reference No | Note
type BulkRow struct {
	Line        int
	BrokerEmail string
	Amount      valueobject.Money
	Method      PaymentMethod
	Reference   string
	Note        string
	// ParseError is set when the row could not be read from the file
	ParseError *shared.DomainError
}

// RowOutcome is the result of one bulk row
type RowOutcome struct {
	Line        int                 `json:"line"`
	BrokerEmail string              `json:"broker_email"`
	PaymentID   *uuid.UUID          `json:"payment_id,omitempty"`
	Settled     []ItemRef           `json:"settled,omitempty"`
	Allocated   valueobject.Money   `json:"allocated"`
	Unallocated valueobject.Money   `json:"unallocated"`
	Error       *shared.DomainError `json:"error,omitempty"`
}

// Failed reports whether the row was counted as an error
func (o RowOutcome) Failed() bool {
	return o.Error != nil
}

// BatchResult tallies a bulk import. Some rows failing is a normal result,
// not an error: ProcessedCount + ErrorCount always equals the row count.
type BatchResult struct {
	ProcessedCount int          `json:"processed_count"`
	ErrorCount     int          `json:"error_count"`
	Rows           []RowOutcome `json:"rows"`
}

// HasFailures reports whether any row failed
func (r *BatchResult) HasFailures() bool {
	return r.ErrorCount > 0
}

// CommitFunc applies one planned row's payment durably. Returning an error
// turns the row into an error row and releases its items for later rows.
type CommitFunc func(ctx context.Context, record *PaymentRecord, items []EligibleItem) error

// Matcher allocates bulk payment rows against brokers' eligible items
type Matcher struct {
	brokers BrokerDirectory
	items   EligibleItemRepository
	now     func() time.Time
}

// NewMatcher creates a matcher over the given lookups
func NewMatcher(brokers BrokerDirectory, items EligibleItemRepository) *Matcher {
	return &Matcher{brokers: brokers, items: items, now: time.Now}
}

// ProcessBatch plans every row independently. Items consumed by an earlier
// row of the batch are not offered to later rows. When commit is nil the
// batch is only previewed. A failing row never stops the batch.
//
// The caller must serialize batches touching the same broker; the matcher
// only guarantees consistency within one batch.
func (m *Matcher) ProcessBatch(ctx context.Context, tenantID uuid.UUID, rows []BulkRow, commit CommitFunc) *BatchResult {
	result := &BatchResult{Rows: make([]RowOutcome, 0, len(rows))}
	claimed := make(map[ItemRef]bool)

	for _, row := range rows {
		outcome := m.processRow(ctx, tenantID, row, claimed, commit)
		if outcome.Failed() {
			result.ErrorCount++
		} else {
			result.ProcessedCount++
		}
		result.Rows = append(result.Rows, outcome)
	}
	return result
}

func (m *Matcher) processRow(ctx context.Context, tenantID uuid.UUID, row BulkRow, claimed map[ItemRef]bool, commit CommitFunc) RowOutcome {
	outcome := RowOutcome{
		Line:        row.Line,
		BrokerEmail: row.BrokerEmail,
		Allocated:   valueobject.Zero(row.Amount.Currency()),
		Unallocated: row.Amount,
	}
	fail := func(err error) RowOutcome {
		outcome.Error = asDomainError(err)
		return outcome
	}

	if row.ParseError != nil {
		return fail(row.ParseError)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if !row.Amount.IsPositive() {
		return fail(shared.NewValidationError("paymentAmount", "payment amount must be positive"))
	}
	if !row.Method.IsValid() {
		return fail(shared.NewValidationError("paymentMethod", fmt.Sprintf("unknown payment method %q", row.Method)))
	}

	email := strings.TrimSpace(row.BrokerEmail)
	if email == "" {
		return fail(shared.NewValidationError("brokerEmail", "broker email is required"))
	}
	brokerID, err := m.brokers.FindBrokerIDByEmail(ctx, tenantID, email)
	if err != nil {
		return fail(err)
	}

	eligible, err := m.items.ListEligible(ctx, tenantID, brokerID)
	if err != nil {
		return fail(err)
	}
	available := eligible[:0:0]
	for _, item := range eligible {
		if !claimed[item.Ref] {
			available = append(available, item)
		}
	}

	alloc := Allocate(available, row.Amount)
	outcome.Allocated = alloc.Allocated
	outcome.Unallocated = alloc.Unallocated
	if len(alloc.Items) == 0 {
		if len(available) == 0 {
			return fail(shared.NewValidationError("brokerEmail", "broker has no eligible items to settle"))
		}
		return fail(shared.NewValidationError("paymentAmount", "payment amount does not cover the oldest eligible item"))
	}

	refs := make([]ItemRef, len(alloc.Items))
	for i, item := range alloc.Items {
		refs[i] = item.Ref
		claimed[item.Ref] = true
	}
	meta := PaymentMeta{Method: row.Method, Reference: row.Reference, Note: row.Note}
	record := newPayment(tenantID, brokerID, alloc.Allocated, meta, PaymentSourceBulk, refs, m.now())

	if commit != nil {
		if err := commit(ctx, record, alloc.Items); err != nil {
			for _, ref := range refs {
				delete(claimed, ref)
			}
			outcome.Allocated = valueobject.Zero(row.Amount.Currency())
			outcome.Unallocated = row.Amount
			return fail(err)
		}
		id := record.ID
		outcome.PaymentID = &id
	}
	outcome.Settled = refs
	return outcome
}

func asDomainError(err error) *shared.DomainError {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de
	}
	return shared.NewDomainError("ROW_FAILED", err.Error())
}
