package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and its profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *domain.User, profile *domain.UserProfile) error {
	return database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		userQuery := `
		INSERT INTO users (id, email, username, password_hash, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

		if _, err := tx.Exec(ctx, userQuery,
			u.ID,
			u.Email,
			u.Username,
			u.PasswordHash,
			u.IsSuperuser,
			u.CreatedAt,
			u.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return apperrors.AlreadyExists("user", "email", u.Email)
			}
			return fmt.Errorf("insert user: %w", err)
		}

		profileQuery := `
		INSERT INTO user_profiles (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`

		if _, err := tx.Exec(ctx, profileQuery, profile.ID, u.ID, profile.CreatedAt, profile.UpdatedAt); err != nil {
			return fmt.Errorf("insert user profile: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, username, password_hash, is_superuser, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address, ignoring case.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, username, password_hash, is_superuser, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)`

	return r.scanUser(ctx, query, email)
}

// SetSuperuser grants or revokes store owner rights.
func (r *UserRepository) SetSuperuser(ctx context.Context, id string, isSuperuser bool) error {
	query := `UPDATE users SET is_superuser = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, isSuperuser, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update user superuser flag: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.IsSuperuser,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// --- Profile Repository ---

// ProfileRepository implements repository.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	db database.DBTX
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(db database.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves the profile that belongs to userID.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `
		SELECT id, user_id, full_name, phone_number, street_address1, street_address2,
		       town_or_city, postcode, county, country, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1`

	var p domain.UserProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.PhoneNumber,
		&p.StreetAddress1,
		&p.StreetAddress2,
		&p.TownOrCity,
		&p.Postcode,
		&p.County,
		&p.Country,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user profile", userID)
		}
		return nil, fmt.Errorf("scan user profile: %w", err)
	}

	return &p, nil
}

// Update stores the profile's default delivery information.
func (r *ProfileRepository) Update(ctx context.Context, p *domain.UserProfile) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE user_profiles
		SET full_name = $1, phone_number = $2, street_address1 = $3, street_address2 = $4,
		    town_or_city = $5, postcode = $6, county = $7, country = $8, updated_at = $9
		WHERE id = $10`

	ct, err := r.db.Exec(ctx, query,
		p.FullName,
		p.PhoneNumber,
		p.StreetAddress1,
		p.StreetAddress2,
		p.TownOrCity,
		p.Postcode,
		p.County,
		p.Country,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user profile", p.ID)
	}

	return nil
}
