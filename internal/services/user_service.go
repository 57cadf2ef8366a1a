package services

import (
	"context"
	"errors"
	"strings"

	"facture-backend/internal/auth"
	"facture-backend/internal/models"
)

// UserRepo is the storage surface the user service needs
type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

type UserService struct {
	Repo       UserRepo
	JWTManager *auth.JWTManager
}

func NewUserService(repo UserRepo, jwtManager *auth.JWTManager) *UserService {
	return &UserService{Repo: repo, JWTManager: jwtManager}
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(req.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}

	if !user.IsActive {
		return nil, errors.New("account suspended")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

// RequestPasswordReset issues a short-lived reset token for the email.
// Delivering the token (mail transport) is outside this service; the
// caller decides how it reaches the user.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", errors.New("no account with that email")
	}
	return s.JWTManager.GenerateResetToken(user)
}

// ResetPassword verifies a reset token and replaces the password
func (s *UserService) ResetPassword(ctx context.Context, req *models.PasswordResetConfirm) error {
	claims, err := s.JWTManager.ValidateResetToken(req.Token)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}

	if len(req.NewPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.Repo.UpdatePassword(ctx, claims.UserID, hash)
}
