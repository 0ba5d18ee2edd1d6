package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account (passenger or driver owner)
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	OTPCode      string    `json:"-"`
	OTPExpiresAt time.Time `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasValidOTP reports whether the stored OTP matches and has not expired
func (u *User) HasValidOTP(code string, now time.Time) bool {
	return u.OTPCode != "" && u.OTPCode == code && now.Before(u.OTPExpiresAt)
}

// Repository defines the interface for user data access
type Repository interface {
	// Create persists a new user
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// SaveOTP stores a fresh OTP and its expiry for the user
	SaveOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error

	// MarkVerified clears the OTP and flags the account as verified
	MarkVerified(ctx context.Context, id uuid.UUID) error
}
