package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	dbm "tripbuddy/internal/models/db_models"
)

type AttractionRepository interface {
	Create(ctx context.Context, attraction *dbm.Attraction) (uint, error)
	GetById(ctx context.Context, id uint) (*dbm.Attraction, error)
	Random(ctx context.Context, count int) ([]dbm.Attraction, error)
	Search(ctx context.Context, term string, minRating float64, page, pageSize int) ([]dbm.Attraction, error)
}

type attractionRepository struct {
	db *gorm.DB
}

func NewAttractionRepository(db *gorm.DB) AttractionRepository {
	return &attractionRepository{db: db}
}

func (r *attractionRepository) Create(ctx context.Context, attraction *dbm.Attraction) (uint, error) {
	if err := r.db.WithContext(ctx).Create(attraction).Error; err != nil {
		return 0, err
	}
	return attraction.ID, nil
}

func (r *attractionRepository) GetById(ctx context.Context, id uint) (*dbm.Attraction, error) {
	var attraction dbm.Attraction
	err := r.db.WithContext(ctx).First(&attraction, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attraction, nil
}

func (r *attractionRepository) Random(ctx context.Context, count int) ([]dbm.Attraction, error) {
	var attractions []dbm.Attraction
	err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(count).
		Find(&attractions).Error
	if err != nil {
		return nil, err
	}
	return attractions, nil
}

func (r *attractionRepository) Search(ctx context.Context, term string, minRating float64, page, pageSize int) ([]dbm.Attraction, error) {
	var attractions []dbm.Attraction

	q := r.db.WithContext(ctx).Where("user_rating >= ?", minRating)
	if term = strings.TrimSpace(term); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	err := q.Scopes(func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}).Order("id").Find(&attractions).Error
	if err != nil {
		return nil, err
	}
	return attractions, nil
}
