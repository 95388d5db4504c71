package persistence

import (
	"context"

	"github.com/estate/backend/internal/domain/schedule"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentPlanRepository implements schedule.PaymentPlanRepository using GORM
type GormPaymentPlanRepository struct {
	db *gorm.DB
}

// NewGormPaymentPlanRepository creates a new GormPaymentPlanRepository
func NewGormPaymentPlanRepository(db *gorm.DB) *GormPaymentPlanRepository {
	return &GormPaymentPlanRepository{db: db}
}

// FindByContract loads the contract's plan with items in due order
func (r *GormPaymentPlanRepository) FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) (*schedule.PaymentPlan, error) {
	var plan models.PaymentPlanModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND contract_id = ?", tenantID, contractID).
		First(&plan).Error; err != nil {
		return nil, translateError(err, "payment_plan")
	}
	var items []models.PaymentPlanItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND plan_id = ?", tenantID, plan.ID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return plan.ToDomain(items)
}

// Replace removes the contract's previous plan and stores plan in one transaction
func (r *GormPaymentPlanRepository) Replace(ctx context.Context, plan *schedule.PaymentPlan) error {
	header, items := models.PaymentPlanFromDomain(plan)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous []uuid.UUID
		if err := tx.Model(&models.PaymentPlanModel{}).
			Where("tenant_id = ? AND contract_id = ?", plan.TenantID, plan.ContractID).
			Pluck("id", &previous).Error; err != nil {
			return err
		}
		if len(previous) > 0 {
			if err := tx.Where("tenant_id = ? AND plan_id IN ?", plan.TenantID, previous).
				Delete(&models.PaymentPlanItemModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("tenant_id = ? AND id IN ?", plan.TenantID, previous).
				Delete(&models.PaymentPlanModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(header).Error; err != nil {
			return translateError(err, "payment_plan")
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}
