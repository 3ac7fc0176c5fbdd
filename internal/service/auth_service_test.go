package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sportsclub/backend/internal/cooldown"
	"github.com/sportsclub/backend/internal/domain"
)

// -------- test fakes --------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) get(id uuid.UUID) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *f.users[id]
	return &clone
}

type sentMail struct {
	email string
	code  string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
	ch   chan sentMail
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{ch: make(chan sentMail, 8)}
}

func (f *fakeMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	f.mu.Lock()
	err := f.err
	if err == nil {
		f.sent = append(f.sent, sentMail{email: email, code: code})
	}
	f.mu.Unlock()
	if err != nil {
		return err
	}
	f.ch <- sentMail{email: email, code: code}
	return nil
}

func (f *fakeMailer) waitForMail(t *testing.T) sentMail {
	t.Helper()
	select {
	case m := <-f.ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for verification email")
		return sentMail{}
	}
}

// -------- helpers --------

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeMailer) {
	t.Helper()
	repo := newFakeUserRepo()
	m := newFakeMailer()
	svc := NewAuthService(repo, m, cooldown.NewMemoryStore(), "test-secret", zap.NewNop())
	return svc, repo, m
}

func signUpVerifiedUser(t *testing.T, svc *AuthService, repo *fakeUserRepo, m *fakeMailer, email string) uuid.UUID {
	t.Helper()
	id, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Test User",
		Email:    email,
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)
	m.waitForMail(t)

	user := repo.get(id)
	_, err = svc.VerifyEmail(context.Background(), email, *user.VerificationOTP)
	require.NoError(t, err)
	return id
}

// -------- sign-up / OTP issuance --------

func TestSignUpIssuesSixDigitCodeWithTenMinuteExpiry(t *testing.T) {
	svc, repo, m := newTestAuthService(t)

	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	id, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	user := repo.get(id)
	require.NotNil(t, user.VerificationOTP)
	require.NotNil(t, user.OTPExpiry)
	assert.Len(t, *user.VerificationOTP, 6)

	n, err := strconv.Atoi(*user.VerificationOTP)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)

	assert.True(t, user.OTPExpiry.Equal(issuedAt.Add(10*time.Minute)))
	assert.False(t, user.IsEmailVerified)
	assert.Equal(t, "test@example.com", user.Email)

	mail := m.waitForMail(t)
	assert.Equal(t, "test@example.com", mail.email)
	assert.Equal(t, *user.VerificationOTP, mail.code)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _, m := newTestAuthService(t)

	_, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	m.waitForMail(t)

	_, err = svc.SignUp(context.Background(), SignUpInput{Name: "B", Email: "A@B.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpSucceedsWhenDeliveryFails(t *testing.T) {
	svc, repo, m := newTestAuthService(t)
	m.err = errors.New("smtp down")

	id, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	user := repo.get(id)
	assert.NotNil(t, user.VerificationOTP, "code stays pending so resend can recover")
}

// -------- verification --------

func TestVerifyEmailSuccessClearsCodeAndMintsToken(t *testing.T) {
	svc, repo, m := newTestAuthService(t)

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	id, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	mail := m.waitForMail(t)

	// One second before expiry the exact code still verifies.
	svc.now = func() time.Time { return t0.Add(10*time.Minute - time.Second) }

	resp, err := svc.VerifyEmail(context.Background(), "a@b.com", mail.code)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, resp.User.IsEmailVerified)
	assert.Nil(t, resp.User.VerificationOTP)
	assert.Nil(t, resp.User.OTPExpiry)

	stored := repo.get(id)
	assert.True(t, stored.IsEmailVerified)
	assert.Nil(t, stored.VerificationOTP)
	assert.Nil(t, stored.OTPExpiry)

	// The token asserts exactly this account for 5 hours.
	token, err := jwt.Parse(resp.Token, func(tk *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, id.String(), sub)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Hour, exp.Sub(iat.Time))
}

func TestVerifyEmailSecondAttemptReportsAlreadyVerified(t *testing.T) {
	svc, repo, m := newTestAuthService(t)

	id, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	mail := m.waitForMail(t)

	_, err = svc.VerifyEmail(context.Background(), "a@b.com", mail.code)
	require.NoError(t, err)

	// Same code again: already-verified wins over invalid-code.
	_, err = svc.VerifyEmail(context.Background(), "a@b.com", mail.code)
	assert.ErrorIs(t, err, ErrAlreadyVerified)

	_, err = svc.VerifyEmail(context.Background(), "a@b.com", "000000")
	assert.ErrorIs(t, err, ErrAlreadyVerified)

	assert.True(t, repo.get(id).IsEmailVerified)
}

func TestVerifyEmailWrongCodeLeavesStateUntouched(t *testing.T) {
	svc, repo, m := newTestAuthService(t)

	id, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	mail := m.waitForMail(t)

	wrong := "000000"
	if mail.code == wrong {
		wrong = "000001"
	}

	_, err = svc.VerifyEmail(context.Background(), "a@b.com", wrong)
	assert.ErrorIs(t, err, ErrInvalidOTP)

	user := repo.get(id)
	assert.False(t, user.IsEmailVerified)
	require.NotNil(t, user.VerificationOTP)
	assert.Equal(t, mail.code, *user.VerificationOTP)
	assert.NotNil(t, user.OTPExpiry)
}

func TestVerifyEmailExpiredCodeFailsEvenWhenExact(t *testing.T) {
	svc, _, m := newTestAuthService(t)

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	_, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	mail := m.waitForMail(t)

	svc.now = func() time.Time { return t0.Add(10*time.Minute + time.Second) }

	_, err = svc.VerifyEmail(context.Background(), "a@b.com", mail.code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestVerifyEmailUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.VerifyEmail(context.Background(), "ghost@b.com", "123456")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// -------- resend --------

func TestResendOverwritesPendingCode(t *testing.T) {
	svc, repo, m := newTestAuthService(t)

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	id, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	first := m.waitForMail(t)

	svc.now = func() time.Time { return t0.Add(2 * time.Minute) }

	require.NoError(t, svc.ResendOTP(context.Background(), "a@b.com"))
	second := m.waitForMail(t)

	user := repo.get(id)
	require.NotNil(t, user.VerificationOTP)
	assert.Equal(t, second.code, *user.VerificationOTP)
	assert.True(t, user.OTPExpiry.Equal(t0.Add(2*time.Minute).Add(10*time.Minute)))

	// The old code no longer verifies, unless the draw happened to repeat.
	if first.code != second.code {
		_, err = svc.VerifyEmail(context.Background(), "a@b.com", first.code)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}
}

func TestResendAlreadyVerified(t *testing.T) {
	svc, repo, m := newTestAuthService(t)

	id := signUpVerifiedUser(t, svc, repo, m, "a@b.com")
	before := repo.get(id)

	err := svc.ResendOTP(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	assert.Equal(t, before, repo.get(id))
}

func TestResendUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	err := svc.ResendOTP(context.Background(), "ghost@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResendCooldown(t *testing.T) {
	svc, _, m := newTestAuthService(t)

	_, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	m.waitForMail(t)

	require.NoError(t, svc.ResendOTP(context.Background(), "a@b.com"))
	m.waitForMail(t)

	err = svc.ResendOTP(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, ErrResendCooldown)
}

func TestResendDeliveryFailure(t *testing.T) {
	svc, _, m := newTestAuthService(t)

	_, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	m.waitForMail(t)

	m.mu.Lock()
	m.err = errors.New("rejected")
	m.mu.Unlock()

	err = svc.ResendOTP(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}

// -------- sign-in --------

func TestSignInCollapsesUnknownEmailAndWrongPassword(t *testing.T) {
	svc, repo, m := newTestAuthService(t)
	signUpVerifiedUser(t, svc, repo, m, "a@b.com")

	_, errUnknown := svc.SignIn(context.Background(), SignInInput{Email: "ghost@b.com", Password: "Sup3rSecret"})
	_, errWrongPw := svc.SignIn(context.Background(), SignInInput{Email: "a@b.com", Password: "WrongPassw0rd"})

	assert.ErrorIs(t, errUnknown, ErrInvalidCreds)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCreds)
	assert.Equal(t, errUnknown, errWrongPw)
}

func TestSignInUnverifiedEmail(t *testing.T) {
	svc, _, m := newTestAuthService(t)

	_, err := svc.SignUp(context.Background(), SignUpInput{Name: "A", Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	m.waitForMail(t)

	_, err = svc.SignIn(context.Background(), SignInInput{Email: "a@b.com", Password: "Sup3rSecret"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestSignInSuccess(t *testing.T) {
	svc, repo, m := newTestAuthService(t)
	id := signUpVerifiedUser(t, svc, repo, m, "a@b.com")

	resp, err := svc.SignIn(context.Background(), SignInInput{Email: "a@b.com", Password: "Sup3rSecret"})
	require.NoError(t, err)
	assert.Equal(t, id, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}
