package persistence

import (
	"context"

	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCommissionModelRepository implements commission.CommissionModelRepository using GORM
type GormCommissionModelRepository struct {
	db *gorm.DB
}

// NewGormCommissionModelRepository creates a new GormCommissionModelRepository
func NewGormCommissionModelRepository(db *gorm.DB) *GormCommissionModelRepository {
	return &GormCommissionModelRepository{db: db}
}

// FindModel loads the model header without tiers or rules
func (r *GormCommissionModelRepository) FindModel(ctx context.Context, tenantID, id uuid.UUID) (*commission.CommissionModel, error) {
	var model models.CommissionModelModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "commission_model")
	}
	return model.ToDomain(), nil
}

// FindTiers loads a model's tiers in configured order
func (r *GormCommissionModelRepository) FindTiers(ctx context.Context, tenantID, modelID uuid.UUID) ([]commission.Tier, error) {
	var rows []models.CommissionTierModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND model_id = ?", tenantID, modelID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	tiers := make([]commission.Tier, len(rows))
	for i := range rows {
		tiers[i] = rows[i].ToDomain()
	}
	return tiers, nil
}

// FindUnitRules loads a model's property-type rules in configured order
func (r *GormCommissionModelRepository) FindUnitRules(ctx context.Context, tenantID, modelID uuid.UUID) ([]commission.UnitTypeRule, error) {
	var rows []models.CommissionUnitRuleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND model_id = ?", tenantID, modelID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	rules := make([]commission.UnitTypeRule, len(rows))
	for i := range rows {
		rules[i] = rows[i].ToDomain()
	}
	return rules, nil
}

// FindByID loads a model with its tiers and unit rules
func (r *GormCommissionModelRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*commission.CommissionModel, error) {
	model, err := r.FindModel(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if model.Tiers, err = r.FindTiers(ctx, tenantID, id); err != nil {
		return nil, err
	}
	if model.UnitRules, err = r.FindUnitRules(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return model, nil
}

// List returns a page of model headers matching filter
func (r *GormCommissionModelRepository) List(ctx context.Context, tenantID uuid.UUID, filter commission.ModelFilter) ([]commission.CommissionModel, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionModelModel{}).Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CommissionModelModel
	if err := paginate(query, filter.Filter, CommissionModelSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	result := make([]commission.CommissionModel, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, total, nil
}

// Save writes the header and replaces its tiers and rules in one transaction
func (r *GormCommissionModelRepository) Save(ctx context.Context, model *commission.CommissionModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.CommissionModelFromDomain(model)).Error; err != nil {
			return translateError(err, "commission_model")
		}
		if err := deleteModelChildren(tx, model.TenantID, model.ID); err != nil {
			return err
		}
		if tiers := models.TierModelsFromDomain(model); len(tiers) > 0 {
			if err := tx.Create(&tiers).Error; err != nil {
				return err
			}
		}
		if rules := models.UnitRuleModelsFromDomain(model); len(rules) > 0 {
			if err := tx.Create(&rules).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a model with its tiers and rules
func (r *GormCommissionModelRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteModelChildren(tx, tenantID, id); err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.CommissionModelModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("commission_model", "commission model not found")
		}
		return nil
	})
}

func deleteModelChildren(tx *gorm.DB, tenantID, modelID uuid.UUID) error {
	if err := tx.Where("tenant_id = ? AND model_id = ?", tenantID, modelID).
		Delete(&models.CommissionTierModel{}).Error; err != nil {
		return err
	}
	return tx.Where("tenant_id = ? AND model_id = ?", tenantID, modelID).
		Delete(&models.CommissionUnitRuleModel{}).Error
}
