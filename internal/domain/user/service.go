// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
	"github.com/your-org/inventory-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles staff account business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest represents staff account creation data
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Create creates a new staff account
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req.Role != "" && !ValidRole(req.Role) {
		return nil, apperrors.NewValidation("role", fmt.Sprintf("unknown role %q", req.Role))
	}

	var existing User
	result := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing)
	if result.Error == nil {
		return nil, apperrors.NewValidation("email", "account with this email already exists")
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewPersistence("lookup user", result.Error)
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewValidation("password", err.Error())
	}

	u := User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, apperrors.NewPersistence("create user", err)
	}

	u.Password = ""
	return &u, nil
}

// Login authenticates a user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var u User
	result := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", req.Email, true).First(&u)
	if result.Error != nil {
		return nil, apperrors.NewValidation("credentials", "invalid email or password")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, apperrors.NewValidation("credentials", "invalid email or password")
	}

	return s.issueTokens(ctx, &u)
}

// RefreshToken generates new tokens using a refresh token
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewValidation("refresh_token", "invalid refresh token")
	}

	var u User
	result := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", claims.UserID, true).First(&u)
	if result.Error != nil {
		return nil, apperrors.NewValidation("refresh_token", "account not found or inactive")
	}

	return s.issueTokens(ctx, &u)
}

// Get returns one staff account
func (s *Service) Get(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user", id)
		}
		return nil, apperrors.NewPersistence("get user", err)
	}
	u.Password = ""
	return &u, nil
}

// List returns all staff accounts
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	err := s.db.WithContext(ctx).Omit("password").Order("created_at").Find(&users).Error
	if err != nil {
		return nil, apperrors.NewPersistence("list users", err)
	}
	return users, nil
}

// SetRole changes a staff account's role
func (s *Service) SetRole(ctx context.Context, id uint, role string) (*User, error) {
	if !ValidRole(role) {
		return nil, apperrors.NewValidation("role", fmt.Sprintf("unknown role %q", role))
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(u).Update("role", role).Error; err != nil {
		return nil, apperrors.NewPersistence("update user role", err)
	}
	u.Role = role
	return u, nil
}

func (s *Service) issueTokens(ctx context.Context, u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	s.db.WithContext(ctx).Model(u).Update("last_login_at", now)

	u.Password = ""
	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
