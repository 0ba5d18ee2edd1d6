package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftride/backend/internal/domain/user"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

const otpTTL = 10 * time.Minute

// Mailer delivers verification codes to users
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// ResendLimiter throttles repeated OTP requests per email
type ResendLimiter interface {
	// Allow reports whether the email may receive another OTP right now
	Allow(ctx context.Context, email string) (bool, error)
}

// nopLimiter never throttles
type nopLimiter struct{}

func (nopLimiter) Allow(ctx context.Context, email string) (bool, error) { return true, nil }

// Config holds auth service configuration
type Config struct {
	JWTSecret string
	JWTExpiry time.Duration
}

// Service handles registration, OTP verification and sessions
type Service struct {
	users   user.Repository
	mailer  Mailer
	limiter ResendLimiter
	config  Config
	logger  *logger.Logger
	now     func() time.Time
}

// NewService creates a new auth service
func NewService(users user.Repository, mailer Mailer, limiter ResendLimiter, cfg Config, log *logger.Logger) *Service {
	if limiter == nil {
		limiter = nopLimiter{}
	}
	if cfg.JWTExpiry <= 0 {
		cfg.JWTExpiry = 24 * time.Hour
	}
	return &Service{
		users:   users,
		mailer:  mailer,
		limiter: limiter,
		config:  cfg,
		logger:  log,
		now:     time.Now,
	}
}

// RegisterParams holds input for creating an account
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// Register creates an unverified account and emails the first OTP
func (s *Service) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperrors.MissingField("name")
	}
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, apperrors.MissingField("email")
	}
	if params.Password == "" {
		return nil, apperrors.MissingField("password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: string(hash),
		Verified:     false,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, u); err != nil {
		// Account exists; the user can request a fresh code
		s.logger.Warn("Failed to send initial OTP",
			logger.String("email", email),
			logger.Err(err),
		)
	}

	s.logger.Info("User registered",
		logger.String("user_id", u.ID.String()),
		logger.String("email", email),
	)
	return u, nil
}

// SendOTP issues a fresh verification code to an existing account
func (s *Service) SendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.MissingField("email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.Verified {
		// Nothing to verify; keep the endpoint idempotent
		return nil
	}

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.logger.Warn("OTP limiter unavailable", logger.Err(err))
	} else if !allowed {
		return apperrors.ErrOTPThrottled
	}

	return s.issueOTP(ctx, u)
}

// VerifyOTP consumes a code and marks the account verified
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.MissingField("email")
	}
	if code == "" {
		return apperrors.MissingField("otp")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.Verified {
		return nil
	}

	now := s.now()
	if u.OTPCode == "" || u.OTPCode != code {
		return apperrors.ErrInvalidOTP
	}
	if !now.Before(u.OTPExpiresAt) {
		return apperrors.ErrOTPExpired
	}

	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return err
	}

	s.logger.Info("Email verified", logger.String("user_id", u.ID.String()))
	return nil
}

// Session is an authenticated login result
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

// Login checks credentials and returns a signed session token
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.MissingField("email")
	}
	if password == "" {
		return nil, apperrors.MissingField("password")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, apperrors.ErrNotVerified
	}

	now := s.now()
	expiresAt := now.Add(s.config.JWTExpiry)
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"email":   u.Email,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, apperrors.Internal("Failed to sign token", err)
	}

	s.logger.Info("User logged in", logger.String("user_id", u.ID.String()))
	return &Session{Token: signed, ExpiresAt: expiresAt, User: u}, nil
}

// ParseToken validates a session token and returns the user ID
func (s *Service) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperrors.Unauthorized("Invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, apperrors.Unauthorized("Invalid token claims", nil)
	}
	raw, _ := claims["user_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Unauthorized("Invalid token claims", err)
	}
	return id, nil
}

func (s *Service) issueOTP(ctx context.Context, u *user.User) error {
	code, err := generateOTP()
	if err != nil {
		return apperrors.Internal("Failed to generate OTP", err)
	}
	expiresAt := s.now().Add(otpTTL)

	if err := s.users.SaveOTP(ctx, u.ID, code, expiresAt); err != nil {
		return err
	}
	if err := s.mailer.SendOTP(ctx, u.Email, code); err != nil {
		return apperrors.Internal("Failed to send OTP email", err)
	}

	s.logger.Info("OTP sent", logger.String("email", u.Email))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
