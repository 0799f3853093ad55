package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fixitnow/fixitnow-server/internal/authz"
	"github.com/fixitnow/fixitnow-server/internal/models"
)

// ErrInvalidCredentials is the single message for any sign-in failure.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccessDenied is returned when an authenticated account lacks admin
// privilege. Deliberately indistinguishable from a credentials failure so
// callers cannot probe which accounts exist.
var ErrAccessDenied = errors.New("invalid email or password")

// ProfileStore is the persistence surface the access gate needs.
// *UserService satisfies it.
type ProfileStore interface {
	FindByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserProfile, error)
}

// AuthService is the access control gate: it authenticates credentials,
// loads the profile and mints session tokens.
type AuthService struct {
	users     ProfileStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.SugaredLogger
}

// NewAuthService creates the access gate.
func NewAuthService(users ProfileStore, jwtSecret string, tokenTTL time.Duration, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a profile on first sign-up and signs the user in.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if req.Email == "" || len(req.Password) < 8 {
		return nil, errors.New("email and a password of at least 8 characters are required")
	}

	profile, err := s.users.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.respond(profile)
}

// Login authenticates email/password credentials. All failures flatten to
// one generic message.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	profile, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.respond(profile)
}

// AdminLogin authenticates and additionally requires an admin role. An
// authenticated account without sufficient role gets no session and the
// same generic denial as a bad password.
func (s *AuthService) AdminLogin(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	profile, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !profile.Role.IsAdmin() {
		s.logger.Infow("Admin login denied for non-admin account", "user_id", profile.ID)
		return nil, ErrAccessDenied
	}
	return s.respond(profile)
}

func (s *AuthService) authenticate(ctx context.Context, req *models.LoginRequest) (*models.UserProfile, error) {
	profile, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return profile, nil
}

func (s *AuthService) respond(profile *models.UserProfile) (*models.AuthResponse, error) {
	token, err := authz.Sign(s.jwtSecret, profile, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Profile: profile}, nil
}
