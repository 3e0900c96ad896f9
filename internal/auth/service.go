package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yassirh/fairsplit/internal/user"
)

// Common errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrMissingFields      = errors.New("username, email and password are required")
)

// Service handles registration and login
type Service struct {
	users  *user.Repository
	tokens *TokenManager
}

// NewService creates a new auth service
func NewService(users *user.Repository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates an account and returns it with a fresh token
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*user.User, string, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, "", ErrMissingFields
	}
	if len(req.Password) < 8 {
		return nil, "", ErrWeakPassword
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	existing, err = s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.Create(ctx, username, email, string(hash), req.AvatarURL)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the credentials and returns the account with a fresh token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me returns the account behind an authenticated user ID
func (s *Service) Me(ctx context.Context, userID int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}
