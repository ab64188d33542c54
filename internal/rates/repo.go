package rates

import (
	"context"

	"github.com/angelmondragon/vitrina-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the single global rate row.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to rate operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the global rate row. gorm.ErrRecordNotFound means none was ever set.
func (r *Repository) Get(ctx context.Context) (*models.RateSettings, error) {
	var row models.RateSettings
	if err := r.db.WithContext(ctx).
		Where("id = ?", models.GlobalRateSettingsID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes both global rates.
func (r *Repository) Upsert(ctx context.Context, usd, eur decimal.Decimal, updatedBy *string) (*models.RateSettings, error) {
	row := &models.RateSettings{
		ID:        models.GlobalRateSettingsID,
		USDRate:   usd,
		EURRate:   eur,
		UpdatedBy: updatedBy,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"usd_rate", "eur_rate", "updated_by", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}
