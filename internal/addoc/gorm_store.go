package addoc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"adsmith/pkg/domain"
)

// AdDocModel is the document row: the ad payload lives in a JSON column,
// keeping the table schema-free the way a document collection is.
type AdDocModel struct {
	ID        string         `gorm:"primaryKey"`
	OwnerID   string         `gorm:"not null;index"`
	Doc       datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

// TableName keeps the collection name explicit.
func (AdDocModel) TableName() string { return "saved_ads" }

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&AdDocModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveAd creates a document in the user's collection and returns its
// generated id. Any client-side id on the ad is replaced by the document
// id, matching create-returns-id semantics.
func (s *GormStore) SaveAd(ctx context.Context, userID string, ad domain.SavedAd) (string, error) {
	id := uuid.NewString()
	ad.ID = id
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now().UTC()
	}
	doc, err := json.Marshal(ad)
	if err != nil {
		return "", fmt.Errorf("encode ad: %w", err)
	}
	model := AdDocModel{
		ID:        id,
		OwnerID:   userID,
		Doc:       datatypes.JSON(doc),
		CreatedAt: ad.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return "", fmt.Errorf("create ad doc: %w", err)
	}
	return id, nil
}

// ListAds returns every document in the user's collection, oldest first.
func (s *GormStore) ListAds(ctx context.Context, userID string) ([]domain.SavedAd, error) {
	var models []AdDocModel
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	ads := make([]domain.SavedAd, 0, len(models))
	for _, m := range models {
		var ad domain.SavedAd
		if err := json.Unmarshal(m.Doc, &ad); err != nil {
			return nil, fmt.Errorf("decode ad doc %s: %w", m.ID, err)
		}
		ad.ID = m.ID
		ads = append(ads, ad)
	}
	return ads, nil
}

// DeleteAd removes one document by id within the user's collection.
func (s *GormStore) DeleteAd(ctx context.Context, userID, adID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", adID, userID).
		Delete(&AdDocModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
