package domain

import (
	"time"
)

// User is a registered shopper account. Superusers are store owners and may
// manage the catalog.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserProfile holds a user's default delivery information. Every user has
// exactly one profile, created together with the account.
type UserProfile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	FullName       *string   `json:"full_name"`
	PhoneNumber    *string   `json:"phone_number"`
	StreetAddress1 *string   `json:"street_address1"`
	StreetAddress2 *string   `json:"street_address2"`
	TownOrCity     *string   `json:"town_or_city"`
	Postcode       *string   `json:"postcode"`
	County         *string   `json:"county"`
	Country        *string   `json:"country"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AuthToken is returned after a successful register or login.
type AuthToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
