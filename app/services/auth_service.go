package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/binodghimire/agrihaat/app/jobs"
	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/pkg/auth"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/queue"
)

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterInput is a new account request. Role is restricted to buyer or
// farmer; admin accounts are seeded, never self-registered.
type RegisterInput struct {
	Name                 string `json:"name"     validate:"required,min=2,max=255"`
	Email                string `json:"email"    validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"     validate:"required,in=buyer,farmer"`
	Phone                string `json:"phone"    validate:"nullable,max=50"`
	District             string `json:"district" validate:"nullable,max=100"`
	Province             string `json:"province" validate:"nullable,max=100"`
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account with a bcrypt-hashed password and returns
// it with a fresh token pair.
func (s *AuthService) Register(in RegisterInput) (models.User, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, TokenPair{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	user := models.User{
		Name:     in.Name,
		Email:    email,
		Password: hash,
		Role:     in.Role,
		Phone:    in.Phone,
		District: in.District,
		Province: in.Province,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, TokenPair{}, err
	}

	pair, err := s.tokens(user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	if err := queue.Dispatch(&jobs.WelcomeMail{Email: user.Email, Name: user.Name, Role: user.Role}); err != nil {
		logger.Warn("welcome mail not queued", "user_id", user.ID, "error", err.Error())
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, pair, nil
}

// Login verifies credentials and returns a token pair. The same error
// covers unknown email and wrong password so the endpoint does not leak
// which one failed.
func (s *AuthService) Login(email, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens(user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token and issues a new pair. The user is
// re-read so a role change or deletion takes effect immediately.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrUnauthenticated
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return TokenPair{}, ErrUnauthenticated
	}
	return s.tokens(user)
}

// Profile returns the account for an authenticated user id.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	if userID == 0 {
		return models.User{}, ErrUnauthenticated
	}
	return s.users.FindByID(userID)
}

func (s *AuthService) tokens(user models.User) (TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
