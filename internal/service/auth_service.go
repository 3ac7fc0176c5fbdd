package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"github.com/sportsclub/backend/internal/cooldown"
	"github.com/sportsclub/backend/internal/domain"
	"github.com/sportsclub/backend/internal/mailer"
	"github.com/sportsclub/backend/internal/repository"
)

var (
	ErrEmailTaken       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidCreds     = errors.New("invalid email or password")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrAlreadyVerified  = errors.New("email already verified")
	ErrInvalidOTP       = errors.New("invalid verification code")
	ErrOTPExpired       = errors.New("verification code expired")
	ErrDeliveryFailed   = errors.New("failed to send verification email")
	ErrResendCooldown   = errors.New("verification code requested too recently")
)

const (
	otpTTL     = 10 * time.Minute
	tokenTTL   = 5 * time.Hour
	resendWait = time.Minute

	defaultBio     = "Welcome to my profile!"
	defaultPicture = "https://images.unsplash.com/photo-1522075469751-3a6694fb2f61?q=80&w=1780&auto=format&fit=crop"
)

type AuthService struct {
	userRepo  repository.UserRepository
	mailer    mailer.Mailer
	cooldowns cooldown.Store
	jwtSecret []byte
	logger    *zap.Logger

	// now is swappable so expiry behavior can be pinned in tests.
	now func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, m mailer.Mailer, cooldowns cooldown.Store, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		mailer:    m,
		cooldowns: cooldowns,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
		now:       time.Now,
	}
}

type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// SignUp creates an unverified account and dispatches the verification
// code without waiting for delivery; a failed send degrades to "use
// resend" instead of failing registration.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (uuid.UUID, error) {
	email := normalizeEmail(input.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("looking up user: %w", err)
	}
	if existing != nil {
		return uuid.Nil, ErrEmailTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:                uuid.New(),
		Name:              input.Name,
		Email:             email,
		PasswordHash:      hash,
		Bio:               defaultBio,
		ProfilePictureURL: defaultPicture,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	code, err := s.stampOTP(user)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return uuid.Nil, fmt.Errorf("creating user: %w", err)
	}

	// Fire-and-forget: the retry policy runs on its own clock, detached
	// from the request's context.
	go func() {
		if err := s.mailer.SendVerificationCode(context.Background(), user.Email, code); err != nil {
			s.logger.Error("verification email delivery failed",
				zap.String("email", user.Email),
				zap.Error(err),
			)
		}
	}()

	return user.ID, nil
}

// VerifyEmail checks the submitted code in a fixed order: existence,
// already-verified, code match, expiry. The order matters for the client:
// a stale code on a verified account must report "already verified".
func (s *AuthService) VerifyEmail(ctx context.Context, email, otp string) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.IsEmailVerified {
		return nil, ErrAlreadyVerified
	}

	if user.VerificationOTP == nil || *user.VerificationOTP != otp {
		return nil, ErrInvalidOTP
	}

	if user.OTPExpiry == nil || s.now().After(*user.OTPExpiry) {
		return nil, ErrOTPExpired
	}

	user.IsEmailVerified = true
	user.VerificationOTP = nil
	user.OTPExpiry = nil
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("saving verified user: %w", err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{User: user, Token: token}, nil
}

// ResendOTP issues a fresh code, overwriting any pending one. Unlike
// sign-up, delivery is synchronous: the caller asked for exactly this.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	ok, err := s.cooldowns.Acquire(ctx, email, resendWait)
	if err != nil {
		return fmt.Errorf("checking resend cooldown: %w", err)
	}
	if !ok {
		return ErrResendCooldown
	}

	code, err := s.stampOTP(user)
	if err != nil {
		return err
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("saving new verification code: %w", err)
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, code); err != nil {
		s.logger.Error("resend delivery failed", zap.String("email", user.Email), zap.Error(err))
		return ErrDeliveryFailed
	}

	return nil
}

// SignIn reports the same error for an unknown email and a wrong password
// so responses don't reveal which accounts exist.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCreds
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCreds
	}

	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{User: user, Token: token}, nil
}

// stampOTP writes a fresh code and its expiry onto the user; both fields
// are set together, never one without the other.
func (s *AuthService) stampOTP(user *domain.User) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("generating verification code: %w", err)
	}
	expiry := s.now().Add(otpTTL)
	user.VerificationOTP = &code
	user.OTPExpiry = &expiry
	return code, nil
}

func (s *AuthService) generateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": s.now().Add(tokenTTL).Unix(),
		"iat": s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyPassword(password, encoded string) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1
}
