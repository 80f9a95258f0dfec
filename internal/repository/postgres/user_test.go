package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

var userColumns = []string{"id", "email", "username", "password_hash", "is_superuser", "created_at", "updated_at"}

func sampleUser() (*domain.User, *domain.UserProfile) {
	u := &domain.User{
		ID: "user-1", Email: "owner@example.com", Username: "owner", PasswordHash: "$2a$10$hash",
		CreatedAt: now, UpdatedAt: now,
	}
	p := &domain.UserProfile{ID: "profile-1", UserID: u.ID, CreatedAt: now, UpdatedAt: now}
	return u, p
}

func TestUserRepository_Create_InsertsUserAndProfile(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u, p := sampleUser()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.Username, u.PasswordHash, false, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO user_profiles").
		WithArgs(p.ID, u.ID, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), u, p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	u, p := sampleUser()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Create(context.Background(), u, p), apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("WHERE lower\\(email\\) = lower\\(\\$1\\)").
		WithArgs("Owner@Example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("user-1", "owner@example.com", "owner", "$2a$10$hash", true, now, now))

	u, err := repo.GetByEmail(context.Background(), "Owner@Example.com")
	require.NoError(t, err)
	assert.True(t, u.IsSuperuser)
	assert.Equal(t, "owner", u.Username)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_SetSuperuser(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET is_superuser").
		WithArgs(true, pgxmock.AnyArg(), "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.SetSuperuser(context.Background(), "user-1", true))
}

func TestProfileRepository_GetByUserID(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)

	cols := []string{"id", "user_id", "full_name", "phone_number", "street_address1", "street_address2",
		"town_or_city", "postcode", "county", "country", "created_at", "updated_at"}
	mock.ExpectQuery("FROM user_profiles").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			"profile-1", "user-1", strPtr("Ada Lovelace"), noStr(), strPtr("1 Main St"), noStr(),
			strPtr("Dublin"), noStr(), noStr(), strPtr("IE"), now, now,
		))

	p, err := repo.GetByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "profile-1", p.ID)
	require.NotNil(t, p.Country)
	assert.Equal(t, "IE", *p.Country)
	assert.Nil(t, p.PhoneNumber)
}

func TestProfileRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProfileRepository(mock)

	mock.ExpectExec("UPDATE user_profiles").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &domain.UserProfile{ID: "profile-x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
