package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/payout"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payout.PaymentRepository and payout.Settler using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create stores a payment record with its item links
func (r *GormPaymentRepository) Create(ctx context.Context, record *payout.PaymentRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertPayment(tx, record)
	})
}

// FindByID loads a payment with the items it settled
func (r *GormPaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*payout.PaymentRecord, error) {
	var model models.PaymentRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "payment_record")
	}
	var items []models.PaymentRecordItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payment_id = ?", tenantID, id).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(items), nil
}

// ListByBroker returns a page of a broker's payments without item links
func (r *GormPaymentRepository) ListByBroker(ctx context.Context, tenantID, brokerID uuid.UUID, filter shared.Filter) ([]payout.PaymentRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentRecordModel{}).
		Where("tenant_id = ? AND broker_id = ?", tenantID, brokerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PaymentRecordModel
	if err := paginate(query, filter, PaymentRecordSortFields, "paid_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	records := make([]payout.PaymentRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain(nil)
	}
	return records, total, nil
}

// Settle flips every referenced item from ELIGIBLE to PAID and stores the
// payment, all in one transaction. Each update is guarded on the ELIGIBLE
// status so two concurrent settlements of the same item cannot both succeed.
func (r *GormPaymentRepository) Settle(ctx context.Context, record *payout.PaymentRecord) error {
	if len(record.Items) == 0 {
		return shared.NewValidationError("items", "a payment must settle at least one item")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range record.Items {
			if err := markPaid(tx, record, ref); err != nil {
				return err
			}
		}
		return insertPayment(tx, record)
	})
}

func markPaid(tx *gorm.DB, record *payout.PaymentRecord, ref payout.ItemRef) error {
	var target any
	switch ref.Type {
	case payout.ItemTypeCommission:
		target = &models.CommissionRecordModel{}
	case payout.ItemTypeIncentive:
		target = &models.IncentiveRecordModel{}
	default:
		return shared.NewValidationError("items", fmt.Sprintf("unknown item type %q", ref.Type))
	}

	result := tx.Model(target).
		Where("tenant_id = ? AND id = ? AND broker_id = ? AND status = ?",
			record.TenantID, ref.ID, record.BrokerID, commission.RecordStatusEligible).
		Updates(map[string]any{
			"status":     commission.RecordStatusPaid,
			"paid_at":    record.PaidAt,
			"payment_id": record.ID,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict,
			fmt.Sprintf("item %s is no longer eligible for payment", ref))
	}
	return nil
}

func insertPayment(tx *gorm.DB, record *payout.PaymentRecord) error {
	header, items := models.PaymentRecordFromDomain(record)
	if err := tx.Create(header).Error; err != nil {
		return translateError(err, "payment_record")
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}
