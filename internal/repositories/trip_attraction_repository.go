package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	dbm "tripbuddy/internal/models/db_models"
)

type TripAttractionRepository interface {
	Attach(ctx context.Context, tripID, attractionID uint) (*dbm.TripAttraction, error)
	Detach(ctx context.Context, associationID uint) (int64, error)
	GetById(ctx context.Context, associationID uint) (*dbm.TripAttraction, error)
	Exists(ctx context.Context, tripID, attractionID uint) (bool, error)
	ListByTrip(ctx context.Context, tripID uint) ([]dbm.TripAttraction, error)
	ListByTripIds(ctx context.Context, tripIDs []uint) ([]dbm.TripAttraction, error)
}

type tripAttractionRepository struct {
	db *gorm.DB
}

func NewTripAttractionRepository(db *gorm.DB) TripAttractionRepository {
	return &tripAttractionRepository{db: db}
}

func (r *tripAttractionRepository) Attach(ctx context.Context, tripID, attractionID uint) (*dbm.TripAttraction, error) {
	link := dbm.TripAttraction{TripID: tripID, AttractionID: attractionID}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Preload("Attraction").First(&link, "id = ?", link.ID).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Detach deletes the link row only; 0 means there was nothing to delete.
func (r *tripAttractionRepository) Detach(ctx context.Context, associationID uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&dbm.TripAttraction{}, "id = ?", associationID)
	return res.RowsAffected, res.Error
}

func (r *tripAttractionRepository) GetById(ctx context.Context, associationID uint) (*dbm.TripAttraction, error) {
	var link dbm.TripAttraction
	err := r.db.WithContext(ctx).Preload("Attraction").First(&link, "id = ?", associationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *tripAttractionRepository) Exists(ctx context.Context, tripID, attractionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbm.TripAttraction{}).
		Where("trip_id = ? AND attraction_id = ?", tripID, attractionID).
		Count(&count).Error
	return count > 0, err
}

func (r *tripAttractionRepository) ListByTrip(ctx context.Context, tripID uint) ([]dbm.TripAttraction, error) {
	return r.ListByTripIds(ctx, []uint{tripID})
}

func (r *tripAttractionRepository) ListByTripIds(ctx context.Context, tripIDs []uint) ([]dbm.TripAttraction, error) {
	if len(tripIDs) == 0 {
		return []dbm.TripAttraction{}, nil
	}

	var links []dbm.TripAttraction
	err := r.db.WithContext(ctx).
		Preload("Attraction").
		Where("trip_id IN ?", tripIDs).
		Order("trip_id, id").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}
