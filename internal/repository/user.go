package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/swiftride/backend/internal/domain/user"
	apperrors "github.com/swiftride/backend/pkg/errors"
)

// PostgreSQL error codes we map to domain errors
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// isPQCode reports whether err is a PostgreSQL error with the given code
func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// UserRepository implements user.Repository over PostgreSQL
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, verified, otp_code, otp_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Verified, u.OTPCode, nullTime(u.OTPExpiresAt))
	if err != nil {
		if isPQCode(err, uniqueViolation) {
			return apperrors.ErrEmailTaken
		}
		return apperrors.Internal("Failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	var (
		u         user.User
		otpExpiry sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, verified, otp_code, otp_expires_at,
		       created_at, updated_at
		FROM users
		WHERE `+where,
		arg,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Verified, &u.OTPCode, &otpExpiry,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to get user", err)
	}
	if otpExpiry.Valid {
		u.OTPExpiresAt = otpExpiry.Time
	}
	return &u, nil
}

// SaveOTP stores a fresh OTP and its expiry for the user
func (r *UserRepository) SaveOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET otp_code = $2, otp_expires_at = $3, updated_at = NOW()
		WHERE id = $1
	`, id, code, expiresAt)
	if err != nil {
		return apperrors.Internal("Failed to save OTP", err)
	}
	return requireRow(res, apperrors.ErrUserNotFound)
}

// MarkVerified clears the OTP and flags the account as verified
func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET verified = TRUE, otp_code = '', otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return apperrors.Internal("Failed to mark user verified", err)
	}
	return requireRow(res, apperrors.ErrUserNotFound)
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// requireRow maps a zero-row update to the given not-found error
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Internal("Failed to read affected rows", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
