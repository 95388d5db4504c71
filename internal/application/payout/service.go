package payout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/estate/backend/internal/domain/payout"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	csvimport "github.com/estate/backend/internal/infrastructure/import"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportOptions bounds bulk payment uploads
type ImportOptions struct {
	Limits         csvimport.Limits
	MaxErrors      int
	IdempotencyTTL time.Duration
	// Currency of the amounts in an upload; files carry no currency column
	Currency valueobject.Currency
}

// Service settles eligible commission and incentive items
type Service struct {
	items       payout.EligibleItemRepository
	payments    payout.PaymentRepository
	settler     payout.Settler
	matcher     *payout.Matcher
	idempotency shared.IdempotencyStore
	opts        ImportOptions
	tenantLocks *keyedMutex
	now         func() time.Time
}

// NewService creates a payout service. idempotency may be nil, in which case
// re-uploads of the same file are not detected.
func NewService(
	items payout.EligibleItemRepository,
	payments payout.PaymentRepository,
	settler payout.Settler,
	brokers payout.BrokerDirectory,
	idempotency shared.IdempotencyStore,
	opts ImportOptions,
) *Service {
	if opts.Currency == "" {
		opts.Currency = valueobject.DefaultCurrency
	}
	return &Service{
		items:       items,
		payments:    payments,
		settler:     settler,
		matcher:     payout.NewMatcher(brokers, items),
		idempotency: idempotency,
		opts:        opts,
		tenantLocks: newKeyedMutex(),
		now:         time.Now,
	}
}

// ListEligible returns a broker's unpaid items oldest first
func (s *Service) ListEligible(ctx context.Context, tenantID, brokerID uuid.UUID) (*EligibleItemsResponse, error) {
	items, err := s.items.ListEligible(ctx, tenantID, brokerID)
	if err != nil {
		return nil, err
	}
	items = payout.SortOldestFirst(items)

	resp := &EligibleItemsResponse{
		BrokerID: brokerID,
		Items:    make([]EligibleItemResponse, len(items)),
		Totals:   []valueobject.Money{},
	}
	totals := make(map[valueobject.Currency]int)
	for i, item := range items {
		resp.Items[i] = EligibleItemResponse{
			Type:      string(item.Ref.Type),
			ID:        item.Ref.ID,
			Amount:    item.Amount,
			CreatedAt: item.CreatedAt,
		}
		cur := item.Amount.Currency()
		idx, ok := totals[cur]
		if !ok {
			idx = len(resp.Totals)
			totals[cur] = idx
			resp.Totals = append(resp.Totals, valueobject.Zero(cur))
		}
		sum, err := resp.Totals[idx].Add(item.Amount)
		if err != nil {
			return nil, err
		}
		resp.Totals[idx] = sum
	}
	return resp, nil
}

// SettleManual pays exactly the selected items of one broker
func (s *Service) SettleManual(ctx context.Context, tenantID uuid.UUID, req ManualPaymentRequest) (*PaymentResponse, error) {
	refs, err := req.refs()
	if err != nil {
		return nil, err
	}
	method, err := payout.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}

	unlock := s.tenantLocks.Lock(tenantID.String())
	defer unlock()

	found, err := s.items.FindEligible(ctx, tenantID, refs)
	if err != nil {
		return nil, err
	}
	byRef := make(map[payout.ItemRef]payout.EligibleItem, len(found))
	for _, item := range found {
		byRef[item.Ref] = item
	}
	selected := make([]payout.EligibleItem, 0, len(refs))
	for _, ref := range refs {
		item, ok := byRef[ref]
		if !ok {
			return nil, shared.NewValidationError("items", fmt.Sprintf("item %s is not eligible for payment", ref))
		}
		selected = append(selected, item)
	}

	meta := payout.PaymentMeta{Method: method, Reference: req.Reference, Note: req.Note}
	record, err := payout.SettleManual(tenantID, req.BrokerID, selected, meta, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.settler.Settle(ctx, record); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Manual payout settled",
		zap.String("payment_id", record.ID.String()),
		zap.String("broker_id", record.BrokerID.String()),
		zap.String("amount", record.Amount.String()),
		zap.Int("items", len(record.Items)),
	)
	resp := ToPaymentResponse(record)
	return &resp, nil
}

// ImportRows allocates already parsed rows and commits each planned payment
func (s *Service) ImportRows(ctx context.Context, tenantID uuid.UUID, rows []payout.BulkRow) *payout.BatchResult {
	unlock := s.tenantLocks.Lock(tenantID.String())
	defer unlock()

	commit := func(ctx context.Context, record *payout.PaymentRecord, _ []payout.EligibleItem) error {
		return s.settler.Settle(ctx, record)
	}
	result := s.matcher.ProcessBatch(ctx, tenantID, rows, commit)

	log := logger.L(ctx)
	for _, row := range result.Rows {
		switch {
		case row.Failed():
			log.Warn("Bulk payout row rejected",
				zap.Int("line", row.Line),
				zap.String("broker_email", row.BrokerEmail),
				zap.String("code", row.Error.Code),
				zap.String("reason", row.Error.Message),
			)
		case row.Unallocated.IsPositive():
			log.Warn("Bulk payout row left an unallocated remainder",
				zap.Int("line", row.Line),
				zap.String("broker_email", row.BrokerEmail),
				zap.String("unallocated", row.Unallocated.String()),
			)
		}
	}
	log.Info("Bulk payout processed",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("processed", result.ProcessedCount),
		zap.Int("errors", result.ErrorCount),
	)
	return result
}

// ImportFile reads a CSV or XLSX upload and settles its rows. The same file
// is accepted once per tenant until the idempotency window expires; a file
// that settled nothing may be uploaded again.
func (s *Service) ImportFile(ctx context.Context, tenantID uuid.UUID, filename string, data []byte) (*ImportResponse, error) {
	key := importKey(tenantID, data)
	if s.idempotency != nil {
		first, err := s.idempotency.MarkProcessed(ctx, key, s.opts.IdempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check upload idempotency: %w", err)
		}
		if !first {
			return nil, shared.NewConflictError("this file has already been imported")
		}
	}

	resp, err := s.importFile(ctx, tenantID, filename, data)
	if s.idempotency != nil && (err != nil || resp.ProcessedCount == 0) {
		if relErr := s.idempotency.Release(ctx, key); relErr != nil {
			logger.L(ctx).Warn("Failed to release upload idempotency key", zap.Error(relErr))
		}
	}
	return resp, err
}

func (s *Service) importFile(ctx context.Context, tenantID uuid.UUID, filename string, data []byte) (*ImportResponse, error) {
	sheet, err := csvimport.ReadSheet(filename, data, s.opts.Limits)
	if err != nil {
		return nil, shared.NewValidationError("file", err.Error())
	}
	rows, parseErrs, err := csvimport.ParsePayoutRows(sheet, s.opts.Currency, s.opts.MaxErrors)
	if err != nil {
		return nil, shared.NewValidationError("file", err.Error())
	}

	resp := &ImportResponse{
		FileName:         filename,
		TotalRows:        len(rows),
		ParseErrors:      parseErrs.Errors(),
		IsTruncated:      parseErrs.IsTruncated(),
		TotalParseErrors: parseErrs.TotalCount(),
	}
	if resp.IsTruncated {
		// Too many unreadable rows to report them all; nothing is settled.
		logger.L(ctx).Warn("Bulk payout file rejected",
			zap.String("file", filename),
			zap.Int("parse_errors", resp.TotalParseErrors),
		)
		resp.BatchResult = payout.BatchResult{ErrorCount: len(rows), Rows: []payout.RowOutcome{}}
		return resp, nil
	}

	resp.BatchResult = *s.ImportRows(ctx, tenantID, rows)
	return resp, nil
}

func importKey(tenantID uuid.UUID, data []byte) string {
	sum := sha256.Sum256(data)
	return "payout-import:" + tenantID.String() + ":" + hex.EncodeToString(sum[:])
}

// Template writes the bulk payment template workbook
func (s *Service) Template(w io.Writer) error {
	return csvimport.WriteTemplate(w)
}

// GetPayment returns one payment record
func (s *Service) GetPayment(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	record, err := s.payments.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(record)
	return &resp, nil
}

// ListPayments pages through a broker's payments
func (s *Service) ListPayments(ctx context.Context, tenantID, brokerID uuid.UUID, filter shared.Filter) (shared.Paginated[PaymentResponse], error) {
	records, total, err := s.payments.ListByBroker(ctx, tenantID, brokerID, filter)
	if err != nil {
		return shared.Paginated[PaymentResponse]{}, err
	}
	items := make([]PaymentResponse, len(records))
	for i := range records {
		items[i] = ToPaymentResponse(&records[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}
