package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authdomain "inboxcal-backend/internal/auth/domain"
	"inboxcal-backend/pkg/apperror"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// UpsertByEmail inserts the user or refreshes the profile and credential
	// of the existing row with the same email, returning the stored row.
	UpsertByEmail(ctx context.Context, user *authdomain.User) (*authdomain.User, error)
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) UpsertByEmail(ctx context.Context, user *authdomain.User) (*authdomain.User, error) {
	now := time.Now().UTC()
	row := *user
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row.CreatedAt = now
	row.UpdatedAt = now

	var stored *authdomain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Atomic upsert: INSERT ... ON CONFLICT (email) DO UPDATE
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "avatar_url", "google_id", "google_refresh_token", "updated_at",
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		stored, err = findBy(tx, "email = ?", row.Email)
		return err
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrStore, "user.upsert", err)
	}
	return stored, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	user, err := findBy(r.db.WithContext(ctx), "id = ?", id)
	return user, apperror.Wrap(apperror.ErrStore, "user.find", err)
}

func findBy(db *gorm.DB, query string, arg any) (*authdomain.User, error) {
	var user authdomain.User
	err := db.Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
