package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "tripbuddy/internal/models/db_models"
)

type AccountRepository interface {
	// FindOrCreateByAuth0Id runs on tx so callers can include it in their
	// own transaction.
	FindOrCreateByAuth0Id(ctx context.Context, tx *gorm.DB, auth0ID string) (*dbm.Account, error)
	GetByAuth0Id(ctx context.Context, auth0ID string) (*dbm.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindOrCreateByAuth0Id(ctx context.Context, tx *gorm.DB, auth0ID string) (*dbm.Account, error) {
	if tx == nil {
		tx = r.db
	}
	tx = tx.WithContext(ctx)

	// Two first-time requests for the same identity may race here; the unique
	// index plus DO NOTHING makes the loser fall through to the read.
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "auth0_id"}},
		DoNothing: true,
	}).Create(&dbm.Account{Auth0ID: auth0ID}).Error; err != nil {
		return nil, err
	}

	var account dbm.Account
	if err := tx.First(&account, "auth0_id = ?", auth0ID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByAuth0Id(ctx context.Context, auth0ID string) (*dbm.Account, error) {
	var account dbm.Account
	err := r.db.WithContext(ctx).First(&account, "auth0_id = ?", auth0ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}
