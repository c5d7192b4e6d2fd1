package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"taskpilot/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- fakes ---

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return errors.New("user not found")
	}
	f.users[user.ID] = user
	return nil
}

type fakeEmailSender struct {
	welcome     []string
	verifyCodes []string
	resetCodes  []string
	welcomeErr  error
}

func (f *fakeEmailSender) SendWelcomeEmail(_ context.Context, email string, _ string) error {
	if f.welcomeErr != nil {
		return f.welcomeErr
	}
	f.welcome = append(f.welcome, email)
	return nil
}

func (f *fakeEmailSender) SendVerifyOtpEmail(_ context.Context, _ string, code string) error {
	f.verifyCodes = append(f.verifyCodes, code)
	return nil
}

func (f *fakeEmailSender) SendResetOtpEmail(_ context.Context, _ string, code string) error {
	f.resetCodes = append(f.resetCodes, code)
	return nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID uuid.UUID) (string, time.Duration, error) {
	return "tok-" + userID.String(), 7 * 24 * time.Hour, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeAuditRepo struct {
	events []entity.AuditEvent
}

func (f *fakeAuditRepo) Log(_ context.Context, log *entity.AuditLog) error {
	f.events = append(f.events, log.Event)
	return nil
}

// --- fixture ---

type authFixture struct {
	svc    *AuthService
	users  *fakeUserRepo
	emails *fakeEmailSender
	audits *fakeAuditRepo
	clock  *fakeClock
	hasher BcryptPasswordHasher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &authFixture{
		users:  newFakeUserRepo(),
		emails: &fakeEmailSender{},
		audits: &fakeAuditRepo{},
		clock:  &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		hasher: BcryptPasswordHasher{Cost: bcrypt.MinCost},
	}
	f.svc = NewAuthService(
		f.users,
		f.audits,
		f.emails,
		f.hasher,
		fakeTokenIssuer{},
		f.clock,
		DefaultAuthConfig(),
		logger,
	)
	return f
}

func (f *authFixture) register(t *testing.T, name, email, password string) *entity.User {
	t.Helper()
	_, err := f.svc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	user, err := f.users.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

// wrongCode returns a 6-digit code guaranteed not to match stored.
func wrongCode(stored string) string {
	if stored == "000000" {
		return "000001"
	}
	return "000000"
}

// --- registration ---

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	result, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7*24*3600), result.ExpiresIn)

	user, err := f.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "tok-"+user.ID.String(), result.Token)

	require.False(t, user.IsAccountVerified)
	require.Empty(t, user.VerifyOtp)
	require.Zero(t, user.VerifyOtpExpireAt)
	require.Empty(t, user.ResetOtp)
	require.Zero(t, user.ResetOtpExpireAt)
	require.True(t, f.hasher.Verify(user.PasswordHash, "hunter22"))
	require.NotEqual(t, "hunter22", user.PasswordHash)

	require.Equal(t, []string{"ada@example.com"}, f.emails.welcome)
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	cases := []RegisterInput{
		{Email: "a@example.com", Password: "pw"},
		{Name: "A", Password: "pw"},
		{Name: "A", Email: "a@example.com"},
	}
	for _, input := range cases {
		_, err := f.svc.Register(context.Background(), input)
		require.ErrorIs(t, err, ErrMissingDetails)
	}
	require.Empty(t, f.users.users)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	first := f.register(t, "Ada", "ada@example.com", "original-pw")
	originalHash := first.PasswordHash

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Imposter", Email: "ada@example.com", Password: "other-pw",
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	require.Len(t, f.users.users, 1)
	require.Equal(t, originalHash, f.users.users[first.ID].PasswordHash)
	require.Equal(t, "Ada", f.users.users[first.ID].Name)
}

func TestRegister_WelcomeEmailFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	f.emails.welcomeErr = errors.New("relay down")

	result, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "pw",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	user, err := f.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
}

// --- login ---

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "hunter22")

	result, err := f.svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.Equal(t, "tok-"+user.ID.String(), result.Token)
	require.Contains(t, f.audits.events, entity.EventLoginSuccess)
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	f.register(t, "Ada", "ada@example.com", "hunter22")

	_, wrongPassword := f.svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "nope"})
	_, unknownEmail := f.svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "nope"})

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

// --- verification OTP ---

func TestSendVerifyOtp_StoresCodeWithExpiry(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")

	require.NoError(t, f.svc.SendVerifyOtp(context.Background(), user.ID))

	require.Len(t, user.VerifyOtp, 6)
	require.Equal(t, f.clock.Now().Add(24*time.Hour).UnixMilli(), user.VerifyOtpExpireAt)
	require.Equal(t, []string{user.VerifyOtp}, f.emails.verifyCodes)
}

func TestSendVerifyOtp_AlreadyVerified(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")
	user.IsAccountVerified = true

	require.ErrorIs(t, f.svc.SendVerifyOtp(context.Background(), user.ID), ErrAlreadyVerified)
}

func TestSendVerifyOtp_ReissueOverwrites(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")

	require.NoError(t, f.svc.SendVerifyOtp(context.Background(), user.ID))
	require.NoError(t, f.svc.SendVerifyOtp(context.Background(), user.ID))

	require.Len(t, f.emails.verifyCodes, 2)
	require.Equal(t, f.emails.verifyCodes[1], user.VerifyOtp)

	require.NoError(t, f.svc.VerifyAccount(context.Background(), user.ID, f.emails.verifyCodes[1]))
	require.True(t, user.IsAccountVerified)
}

func TestVerifyAccount_SuccessClearsCode(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")
	require.NoError(t, f.svc.SendVerifyOtp(context.Background(), user.ID))
	code := user.VerifyOtp

	require.NoError(t, f.svc.VerifyAccount(context.Background(), user.ID, code))

	require.True(t, user.IsAccountVerified)
	require.Empty(t, user.VerifyOtp)
	require.Zero(t, user.VerifyOtpExpireAt)

	// The consumed code must read as invalid, not expired.
	require.ErrorIs(t, f.svc.VerifyAccount(context.Background(), user.ID, code), ErrOtpInvalid)
}

func TestVerifyAccount_AcceptedJustBeforeExpiry(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")
	require.NoError(t, f.svc.SendVerifyOtp(context.Background(), user.ID))

	f.clock.advance(23*time.Hour + 59*time.Minute)
	require.NoError(t, f.svc.VerifyAccount(context.Background(), user.ID, user.VerifyOtp))
	require.True(t, user.IsAccountVerified)
}

func TestVerifyAccount_RejectedAfterExpiry(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")
	require.NoError(t, f.svc.SendVerifyOtp(context.Background(), user.ID))
	code := user.VerifyOtp

	f.clock.advance(24*time.Hour + time.Minute)

	// A matching but stale code is distinguished from a non-matching one.
	require.ErrorIs(t, f.svc.VerifyAccount(context.Background(), user.ID, code), ErrOtpExpired)
	require.False(t, user.IsAccountVerified)
	require.NotEmpty(t, user.VerifyOtp)
}

func TestVerifyAccount_WrongCode(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")
	require.NoError(t, f.svc.SendVerifyOtp(context.Background(), user.ID))

	err := f.svc.VerifyAccount(context.Background(), user.ID, wrongCode(user.VerifyOtp))
	require.ErrorIs(t, err, ErrOtpInvalid)
	require.False(t, user.IsAccountVerified)
}

func TestVerifyAccount_EmptyCode(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")

	require.ErrorIs(t, f.svc.VerifyAccount(context.Background(), user.ID, ""), ErrOtpInvalid)
}

// --- reset OTP ---

func TestResetPassword_Flow(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "old-pw")

	require.NoError(t, f.svc.SendResetOtp(context.Background(), "ada@example.com"))
	require.Equal(t, f.clock.Now().Add(15*time.Minute).UnixMilli(), user.ResetOtpExpireAt)
	code := user.ResetOtp
	require.Len(t, code, 6)
	require.Equal(t, []string{code}, f.emails.resetCodes)

	f.clock.advance(14 * time.Minute)
	require.NoError(t, f.svc.ResetPassword(context.Background(), "ada@example.com", code, "new-pw"))

	require.True(t, f.hasher.Verify(user.PasswordHash, "new-pw"))
	require.False(t, f.hasher.Verify(user.PasswordHash, "old-pw"))
	require.Empty(t, user.ResetOtp)
	require.Zero(t, user.ResetOtpExpireAt)

	err := f.svc.ResetPassword(context.Background(), "ada@example.com", code, "another-pw")
	require.ErrorIs(t, err, ErrOtpInvalid)
}

func TestResetPassword_Expired(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "old-pw")
	require.NoError(t, f.svc.SendResetOtp(context.Background(), "ada@example.com"))
	code := user.ResetOtp

	f.clock.advance(16 * time.Minute)

	err := f.svc.ResetPassword(context.Background(), "ada@example.com", code, "new-pw")
	require.ErrorIs(t, err, ErrOtpExpired)
	require.True(t, f.hasher.Verify(user.PasswordHash, "old-pw"))
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	err := f.svc.ResetPassword(context.Background(), "ghost@example.com", "123456", "pw")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.ErrorIs(t, f.svc.SendResetOtp(context.Background(), "ghost@example.com"), ErrUserNotFound)
}

func TestOtpLifecyclesAreIndependent(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")

	require.NoError(t, f.svc.SendVerifyOtp(context.Background(), user.ID))
	require.NoError(t, f.svc.SendResetOtp(context.Background(), "ada@example.com"))

	// Consuming the reset code leaves the verification code untouched.
	require.NoError(t, f.svc.ResetPassword(context.Background(), "ada@example.com", user.ResetOtp, "new-pw"))
	require.NotEmpty(t, user.VerifyOtp)
	require.NotZero(t, user.VerifyOtpExpireAt)
	require.Empty(t, user.ResetOtp)
}

func TestGetUserData(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	user := f.register(t, "Ada", "ada@example.com", "pw")

	got, err := f.svc.GetUserData(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada", got.Name)

	_, err = f.svc.GetUserData(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}
