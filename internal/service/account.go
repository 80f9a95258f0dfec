package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/auth"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const msgInvalidCredentials = "invalid email or password"

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	GenerateAccessToken(userID, email string, isSuperuser bool) (string, time.Time, error)
}

// AccountService handles registration, login and the user's profile.
type AccountService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	tokens TokenIssuer,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for creating an account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates a user with an empty profile and signs them in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, *domain.AuthToken, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.UserProfile{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user, profile); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
	)

	return user, token, nil
}

// Login checks the credentials and returns a fresh access token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.AuthToken, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	return s.issueToken(user)
}

func (s *AccountService) issueToken(user *domain.User) (*domain.AuthToken, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.IsSuperuser)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &domain.AuthToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// GetProfile returns the delivery profile of the given user.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// ProfileInput holds the editable delivery fields. Blank values clear the field.
type ProfileInput struct {
	FullName       *string
	PhoneNumber    *string
	StreetAddress1 *string
	StreetAddress2 *string
	TownOrCity     *string
	Postcode       *string
	County         *string
	Country        *string
}

// UpdateProfile replaces the user's default delivery information.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile for update: %w", err)
	}

	profile.FullName = blankToNil(in.FullName)
	profile.PhoneNumber = blankToNil(in.PhoneNumber)
	profile.StreetAddress1 = blankToNil(in.StreetAddress1)
	profile.StreetAddress2 = blankToNil(in.StreetAddress2)
	profile.TownOrCity = blankToNil(in.TownOrCity)
	profile.Postcode = blankToNil(in.Postcode)
	profile.County = blankToNil(in.County)
	profile.Country = blankToNil(in.Country)
	if profile.Country != nil {
		upper := strings.ToUpper(*profile.Country)
		profile.Country = &upper
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated",
		slog.String("user_id", userID),
	)

	return profile, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
