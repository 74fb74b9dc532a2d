package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zenithstudio/backend/internal/domain/order"
	"github.com/zenithstudio/backend/internal/infrastructure/persistence/models"
)

// GormSerialAllocator hands out per-year serial numbers from the
// serial_counters table. The increment runs in a transaction against
// the counter row, so two concurrent allocations serialize on the row
// lock and can never observe the same sequence.
type GormSerialAllocator struct {
	db *gorm.DB
}

// NewGormSerialAllocator creates a new GormSerialAllocator
func NewGormSerialAllocator(db *gorm.DB) *GormSerialAllocator {
	return &GormSerialAllocator{db: db}
}

// NextSerial allocates the next serial number for the given year
func (a *GormSerialAllocator) NextSerial(ctx context.Context, year int) (string, error) {
	var seq int
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Make sure the counter row exists; losing the insert race is fine.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "year"}},
			DoNothing: true,
		}).Create(&models.SerialCounterModel{Year: year, UpdatedAt: time.Now()}).Error; err != nil {
			return err
		}

		res := tx.Model(&models.SerialCounterModel{}).
			Where("year = ?", year).
			Updates(map[string]any{
				"last_seq":   gorm.Expr("last_seq + 1"),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}

		var row models.SerialCounterModel
		if err := tx.First(&row, "year = ?", year).Error; err != nil {
			return err
		}
		seq = row.LastSeq
		return nil
	})
	if err != nil {
		return "", err
	}
	return order.FormatSerial(year, seq), nil
}
