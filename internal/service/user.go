package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/khanadev/kms/internal/auth"
	"github.com/khanadev/kms/internal/hash"
	"github.com/khanadev/kms/internal/models"
	"github.com/khanadev/kms/internal/repo"
	"github.com/khanadev/kms/internal/transport"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w{2,3}$`)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

// CreateToken signs an HS256 access token carrying the principal.
func (s *AuthService) CreateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(s.TokenTTL).Unix(),
	}
	if user.CanteenID != nil {
		claims["canteen_id"] = *user.CanteenID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.JWTSecret)
}

// Register creates a STUDENT account. Other roles are provisioned by admins.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, "", fmt.Errorf("%w: please provide a valid email", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if req.Role != models.RoleStudent {
		return nil, "", fmt.Errorf("%w: only students can register", ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%w: user already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleStudent,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.CreateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*models.User, string, error) {
	user, err := s.Repo.GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, "", err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.CreateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Me(ctx context.Context, p auth.Principal) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, p.ID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, p auth.Principal, req transport.UpdateProfileRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}

	user, err := s.Repo.UpdateUser(ctx, p.ID, map[string]any{"name": name})
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, p auth.Principal, req transport.ChangePasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrValidation)
	}

	user, err := s.Repo.GetUser(ctx, p.ID)
	if err != nil {
		return notFound(err, "user not found")
	}
	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}

	newHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	_, err = s.Repo.UpdateUser(ctx, p.ID, map[string]any{"password_hash": newHash})
	return err
}
