package services

import (
	"context"
	"errors"
	"testing"

	"facture-backend/internal/auth"
	"facture-backend/internal/config"
	"facture-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	nextID  int
	byID    map[int]*models.User
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID:  1,
		byID:    make(map[int]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	if _, exists := f.byEmail[u.Email]; exists {
		return errors.New("email already registered")
	}
	u.ID = f.nextID
	f.nextID++
	u.IsActive = true
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id int) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return errors.New("user not found")
	}
	u.PasswordHash = passwordHash
	f.byEmail[u.Email].PasswordHash = passwordHash
	return nil
}

func testJWTManager() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "facture-test"
	return auth.NewJWTManager(cfg)
}

func TestSignupAndLogin(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testJWTManager())
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &models.SignupRequest{
		Email:    "Jean@Example.FR",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, "jean@example.fr", signup.User.Email, "emails are normalized")

	login, err := svc.Login(ctx, &models.LoginRequest{
		Email:    "jean@example.fr",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, login.User.ID)
}

func TestSignupValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testJWTManager())
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Email: "not-an-email", Password: "secret123"})
	assert.Error(t, err)

	_, err = svc.Signup(ctx, &models.SignupRequest{Email: "ok@example.fr", Password: "short"})
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testJWTManager())
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Email: "jean@example.fr", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "jean@example.fr", Password: "wrong"})
	assert.Error(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.fr", Password: "secret123"})
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), testJWTManager())
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Email: "jean@example.fr", Password: "secret123"})
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "jean@example.fr")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, &models.PasswordResetConfirm{
		Token:       token,
		NewPassword: "newsecret456",
	}))

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "jean@example.fr", Password: "secret123"})
	assert.Error(t, err, "old password no longer works")

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "jean@example.fr", Password: "newsecret456"})
	assert.NoError(t, err)
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	jwtManager := testJWTManager()
	svc := NewUserService(newFakeUserRepo(), jwtManager)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &models.SignupRequest{Email: "jean@example.fr", Password: "secret123"})
	require.NoError(t, err)

	// A login token must not be usable for password reset
	err = svc.ResetPassword(ctx, &models.PasswordResetConfirm{
		Token:       signup.Token,
		NewPassword: "newsecret456",
	})
	assert.Error(t, err)
}
