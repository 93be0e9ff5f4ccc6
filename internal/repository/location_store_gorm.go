package repository

import (
	"context"

	"kickabout/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLocationStore is the production LocationStore, backed by MySQL with
// an index on the geohash column so ScanRange is a real index range scan.
type GormLocationStore struct {
	db *gorm.DB
}

func NewGormLocationStore(db *gorm.DB) *GormLocationStore {
	return &GormLocationStore{db: db}
}

func (s *GormLocationStore) Upsert(ctx context.Context, record *models.ActiveLocation) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"geohash", "latitude", "longitude", "mode", "is_visible", "last_updated_at", "updated_at",
		}),
	}).Create(record).Error
}

func (s *GormLocationStore) ScanRange(ctx context.Context, start, end string) ([]models.ActiveLocation, error) {
	var records []models.ActiveLocation
	err := s.db.WithContext(ctx).
		Where("geohash BETWEEN ? AND ?", start, end).
		Order("geohash").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormLocationStore) GetByEntityID(ctx context.Context, entityID string) (*models.ActiveLocation, error) {
	var record models.ActiveLocation
	err := s.db.WithContext(ctx).Where("entity_id = ?", entityID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
