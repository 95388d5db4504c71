package persistence

import (
	"context"

	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/payout"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEligibleItemRepository reads unpaid commissions and incentives as one
// list of payable items
type GormEligibleItemRepository struct {
	db *gorm.DB
}

// NewGormEligibleItemRepository creates a new GormEligibleItemRepository
func NewGormEligibleItemRepository(db *gorm.DB) *GormEligibleItemRepository {
	return &GormEligibleItemRepository{db: db}
}

// ListEligible returns a broker's eligible items, oldest first
func (r *GormEligibleItemRepository) ListEligible(ctx context.Context, tenantID, brokerID uuid.UUID) ([]payout.EligibleItem, error) {
	var commissions []models.CommissionRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND broker_id = ? AND status = ?", tenantID, brokerID, commission.RecordStatusEligible).
		Find(&commissions).Error; err != nil {
		return nil, err
	}
	var incentives []models.IncentiveRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND broker_id = ? AND status = ?", tenantID, brokerID, commission.RecordStatusEligible).
		Find(&incentives).Error; err != nil {
		return nil, err
	}
	return payout.SortOldestFirst(toEligibleItems(commissions, incentives)), nil
}

// FindEligible returns the referenced items that are still eligible. Refs
// that are unknown, paid or belong to another tenant are left out.
func (r *GormEligibleItemRepository) FindEligible(ctx context.Context, tenantID uuid.UUID, refs []payout.ItemRef) ([]payout.EligibleItem, error) {
	var commissionIDs, incentiveIDs []uuid.UUID
	for _, ref := range refs {
		switch ref.Type {
		case payout.ItemTypeCommission:
			commissionIDs = append(commissionIDs, ref.ID)
		case payout.ItemTypeIncentive:
			incentiveIDs = append(incentiveIDs, ref.ID)
		}
	}

	var commissions []models.CommissionRecordModel
	if len(commissionIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("tenant_id = ? AND status = ? AND id IN ?", tenantID, commission.RecordStatusEligible, commissionIDs).
			Find(&commissions).Error; err != nil {
			return nil, err
		}
	}
	var incentives []models.IncentiveRecordModel
	if len(incentiveIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("tenant_id = ? AND status = ? AND id IN ?", tenantID, commission.RecordStatusEligible, incentiveIDs).
			Find(&incentives).Error; err != nil {
			return nil, err
		}
	}
	return payout.SortOldestFirst(toEligibleItems(commissions, incentives)), nil
}

func toEligibleItems(commissions []models.CommissionRecordModel, incentives []models.IncentiveRecordModel) []payout.EligibleItem {
	items := make([]payout.EligibleItem, 0, len(commissions)+len(incentives))
	for _, c := range commissions {
		items = append(items, payout.EligibleItem{
			Ref:       payout.ItemRef{Type: payout.ItemTypeCommission, ID: c.ID},
			BrokerID:  c.BrokerID,
			Amount:    c.Money(),
			CreatedAt: c.CreatedAt,
		})
	}
	for _, in := range incentives {
		items = append(items, payout.EligibleItem{
			Ref:       payout.ItemRef{Type: payout.ItemTypeIncentive, ID: in.ID},
			BrokerID:  in.BrokerID,
			Amount:    in.Money(),
			CreatedAt: in.CreatedAt,
		})
	}
	return items
}
