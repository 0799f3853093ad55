package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

const userColumns = `id, name, email, phone, password_hash, role, district, created_at`

// UserService handles user profile records. Role and district changes are
// operator-assigned out of band; the service never promotes anyone.
type UserService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewUserService creates a new user service.
func NewUserService(db *pgxpool.Pool, logger *zap.SugaredLogger) *UserService {
	return &UserService{db: db, logger: logger}
}

// Register creates a profile on first sign-up with role "user".
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &models.UserProfile{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if p := strings.TrimSpace(req.Phone); p != "" {
		profile.Phone = &p
	}
	if profile.Name == "" {
		profile.Name = "User"
	}

	query := `
		INSERT INTO users (id, name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = s.db.QueryRow(ctx, query,
		profile.ID, profile.Name, profile.Email, profile.Phone,
		profile.PasswordHash, profile.Role,
	).Scan(&profile.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.logger.Infow("User registered", "id", profile.ID)
	return profile, nil
}

// FindByEmail looks up a profile by email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanOne(s.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// FindByID looks up a profile by id.
func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanOne(s.db.QueryRow(ctx, query, id))
}

func (s *UserService) scanOne(row pgx.Row) (*models.UserProfile, error) {
	var u models.UserProfile
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.District, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &u, nil
}
