package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	dbm "tripbuddy/internal/models/db_models"
)

// ErrTripNotOwned is returned by owner-scoped writes when the trip exists
// but belongs to another identity.
var ErrTripNotOwned = errors.New("trip belongs to another identity")

type TripRepository interface {
	GetAllTrips(ctx context.Context) ([]dbm.Trip, error)
	GetTripById(ctx context.Context, id uint) (*dbm.Trip, error)
	GetTripsByUserId(ctx context.Context, userID uint) ([]dbm.Trip, error)
	GetTripsByAuth0Id(ctx context.Context, auth0ID string) ([]dbm.Trip, error)
	AddTrip(ctx context.Context, trip *dbm.Trip) (*dbm.Trip, error)
	DeleteTripById(ctx context.Context, id uint, owner string) (int64, error)
	UpdateTripById(ctx context.Context, id uint, owner string, updates map[string]interface{}) (*dbm.Trip, error)
	CreateTripWithAttraction(ctx context.Context, trip *dbm.Trip, attractionID uint) (*dbm.Trip, *dbm.TripAttraction, error)
}

type tripRepository struct {
	db       *gorm.DB
	accounts AccountRepository
}

func NewTripRepository(db *gorm.DB, accounts AccountRepository) TripRepository {
	return &tripRepository{db: db, accounts: accounts}
}

func (r *tripRepository) GetAllTrips(ctx context.Context) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := r.db.WithContext(ctx).Order("id").Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) GetTripById(ctx context.Context, id uint) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) GetTripsByUserId(ctx context.Context, userID uint) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := r.db.WithContext(ctx).
		Joins("JOIN users_trips ON users_trips.trip_id = trips.id").
		Where("users_trips.user_id = ?", userID).
		Order("trips.id").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) GetTripsByAuth0Id(ctx context.Context, auth0ID string) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := r.db.WithContext(ctx).
		Joins("JOIN users_trips ON users_trips.trip_id = trips.id").
		Joins("JOIN accounts ON accounts.id = users_trips.user_id").
		Where("accounts.auth0_id = ? AND accounts.deleted_at IS NULL", auth0ID).
		Order("trips.id").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

// AddTrip stores the trip and records the owner's membership in one
// transaction.
func (r *tripRepository) AddTrip(ctx context.Context, trip *dbm.Trip) (*dbm.Trip, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.createTripTx(ctx, tx, trip)
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// CreateTripWithAttraction creates a trip and saves the attraction under it
// atomically: either both rows exist afterwards or neither does.
func (r *tripRepository) CreateTripWithAttraction(
	ctx context.Context,
	trip *dbm.Trip,
	attractionID uint,
) (*dbm.Trip, *dbm.TripAttraction, error) {

	var link dbm.TripAttraction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.createTripTx(ctx, tx, trip); err != nil {
			return err
		}

		link = dbm.TripAttraction{TripID: trip.ID, AttractionID: attractionID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		return tx.Preload("Attraction").First(&link, "id = ?", link.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return trip, &link, nil
}

func (r *tripRepository) createTripTx(ctx context.Context, tx *gorm.DB, trip *dbm.Trip) error {
	account, err := r.accounts.FindOrCreateByAuth0Id(ctx, tx, trip.Auth0ID)
	if err != nil {
		return err
	}

	if err := tx.Create(trip).Error; err != nil {
		return err
	}

	return tx.Create(&dbm.UserTrip{UserID: account.ID, TripID: trip.ID}).Error
}

// DeleteTripById removes the trip together with its membership and
// attraction links. Attractions themselves are left alone. A non-empty owner
// scopes the delete to trips with that auth0_id.
func (r *tripRepository) DeleteTripById(ctx context.Context, id uint, owner string) (int64, error) {
	var affected int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := ownedBy(tx.Where("id = ?", id), owner).Delete(&dbm.Trip{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return notOwnedTx(tx, id, owner)
		}

		if err := tx.Where("trip_id = ?", id).Delete(&dbm.TripAttraction{}).Error; err != nil {
			return err
		}
		return tx.Where("trip_id = ?", id).Delete(&dbm.UserTrip{}).Error
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// UpdateTripById applies only the given columns. Returns (nil, nil) when no
// trip has that id and ErrTripNotOwned when owner is set and does not match.
func (r *tripRepository) UpdateTripById(
	ctx context.Context,
	id uint,
	owner string,
	updates map[string]interface{},
) (*dbm.Trip, error) {

	var trip dbm.Trip

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&trip, "id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			if owner != "" && trip.Auth0ID != owner {
				return ErrTripNotOwned
			}
			return nil
		}

		res := ownedBy(tx.Model(&dbm.Trip{}).Where("id = ?", id), owner).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := notOwnedTx(tx, id, owner); err != nil {
				return err
			}
			return gorm.ErrRecordNotFound
		}

		if newOwner, ok := updates["auth0_id"].(string); ok {
			if err := r.moveMembershipTx(ctx, tx, id, newOwner); err != nil {
				return err
			}
		}

		return tx.First(&trip, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func ownedBy(q *gorm.DB, owner string) *gorm.DB {
	if owner == "" {
		return q
	}
	return q.Where("auth0_id = ?", owner)
}

// notOwnedTx tells a missing trip apart from one another identity owns,
// after an owner-scoped write touched no rows.
func notOwnedTx(tx *gorm.DB, id uint, owner string) error {
	if owner == "" {
		return nil
	}
	var n int64
	if err := tx.Model(&dbm.Trip{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrTripNotOwned
	}
	return nil
}

// moveMembershipTx keeps users_trips in step with trips.auth0_id so a trip
// is never shared between identities.
func (r *tripRepository) moveMembershipTx(ctx context.Context, tx *gorm.DB, tripID uint, auth0ID string) error {
	account, err := r.accounts.FindOrCreateByAuth0Id(ctx, tx, auth0ID)
	if err != nil {
		return err
	}

	if err := tx.Where("trip_id = ?", tripID).Delete(&dbm.UserTrip{}).Error; err != nil {
		return err
	}
	return tx.Create(&dbm.UserTrip{UserID: account.ID, TripID: tripID}).Error
}
