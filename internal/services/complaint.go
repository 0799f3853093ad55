// Package services contains business logic layers.
// Services are called by handlers and interact with the database and the
// external collaborators (AI, geocoder, image host).
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

const complaintColumns = `id, user_id, user_name, title, description, category, address,
	latitude, longitude, district, photo_url, status, duplicate_of, created_at`

// ComplaintService handles complaint persistence and queries.
type ComplaintService struct {
	db *pgxpool.Pool
	// whether district admins also see unresolved-district complaints
	unknownFallback bool
	logger          *zap.SugaredLogger
}

// NewComplaintService creates a new complaint service.
func NewComplaintService(db *pgxpool.Pool, unknownFallback bool, logger *zap.SugaredLogger) *ComplaintService {
	return &ComplaintService{db: db, unknownFallback: unknownFallback, logger: logger}
}

// Create stores a new complaint. The creation timestamp is server-assigned.
func (s *ComplaintService) Create(ctx context.Context, c *models.Complaint) error {
	query := `
		INSERT INTO complaints (id, user_id, user_name, title, description, category, address,
			latitude, longitude, district, photo_url, status, duplicate_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	err := s.db.QueryRow(ctx, query,
		c.ID, c.UserID, c.UserName, c.Title, c.Description, c.Category, c.Address,
		c.Latitude, c.Longitude, c.District, c.PhotoURL, c.Status, c.DuplicateOf,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

// GetByID returns a single complaint.
func (s *ComplaintService) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`

	row := s.db.QueryRow(ctx, query, id)
	c, err := scanComplaint(row)
	if err != nil {
		return nil, fmt.Errorf("complaint not found: %w", err)
	}
	return c, nil
}

// UpdateStatus unconditionally overwrites the status; no transition graph
// is enforced.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) error {
	tag, err := s.db.Exec(ctx, `UPDATE complaints SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complaint %s not found", id)
	}
	return nil
}

// MarkDuplicate links a complaint to the report it duplicates. The
// duplicate link forces the status to Resolved in the same write.
func (s *ComplaintService) MarkDuplicate(ctx context.Context, id, duplicateOf uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE complaints SET duplicate_of = $2, status = $3 WHERE id = $1`,
		id, duplicateOf, models.StatusResolved)
	if err != nil {
		return fmt.Errorf("mark duplicate: %w", err)
	}
	return nil
}

// ListScoped returns complaints visible to the given caller, newest first.
func (s *ComplaintService) ListScoped(ctx context.Context, userID uuid.UUID, role models.UserRole, district *string) ([]models.Complaint, error) {
	clause, args := ScopeFilter(userID, role, district, s.unknownFallback)

	query := `SELECT ` + complaintColumns + ` FROM complaints`
	if clause != "" {
		query += ` WHERE ` + clause
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	complaints := make([]models.Complaint, 0)
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("decode complaint row: %w", err)
		}
		complaints = append(complaints, *c)
	}
	return complaints, rows.Err()
}

// Heatmap returns weighted density points for the caller's scope, with
// coordinates bucketed to ~10m so nearby reports aggregate.
func (s *ComplaintService) Heatmap(ctx context.Context, userID uuid.UUID, role models.UserRole, district *string) ([]models.HeatmapPoint, error) {
	clause, args := ScopeFilter(userID, role, district, s.unknownFallback)

	query := `
		SELECT ROUND(latitude::numeric, 4)::float8 AS lat,
			ROUND(longitude::numeric, 4)::float8 AS lng,
			COUNT(*) AS weight
		FROM complaints
		WHERE latitude <> 0 AND longitude <> 0`
	if clause != "" {
		query += ` AND (` + clause + `)`
	}
	query += ` GROUP BY 1, 2`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("heatmap query: %w", err)
	}
	defer rows.Close()

	points := make([]models.HeatmapPoint, 0)
	for rows.Next() {
		var p models.HeatmapPoint
		if err := rows.Scan(&p.Latitude, &p.Longitude, &p.Weight); err != nil {
			return nil, fmt.Errorf("decode heatmap row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetTrends returns complaint submissions per day over the last N days.
func (s *ComplaintService) GetTrends(ctx context.Context, days int) ([]models.AnalyticsTrend, error) {
	query := `
		SELECT DATE_TRUNC('day', created_at)::date::text AS date, COUNT(*) AS count
		FROM complaints
		WHERE created_at > NOW() - INTERVAL '1 day' * $1
		GROUP BY DATE_TRUNC('day', created_at)
		ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trends := make([]models.AnalyticsTrend, 0)
	for rows.Next() {
		var t models.AnalyticsTrend
		if err := rows.Scan(&t.Date, &t.Count); err != nil {
			return nil, fmt.Errorf("decode trend row: %w", err)
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// GetCategoryDistribution returns complaint categories for analytics charts.
func (s *ComplaintService) GetCategoryDistribution(ctx context.Context) ([]models.CategoryDistribution, error) {
	query := `
		SELECT category, COUNT(*) AS count
		FROM complaints
		GROUP BY category
		ORDER BY count DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make([]models.CategoryDistribution, 0)
	for rows.Next() {
		var c models.CategoryDistribution
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("decode category row: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetDistrictDistribution returns complaint counts per district.
func (s *ComplaintService) GetDistrictDistribution(ctx context.Context) ([]models.DistrictDistribution, error) {
	query := `
		SELECT COALESCE(district, 'Unknown') AS district, COUNT(*) AS count
		FROM complaints
		GROUP BY COALESCE(district, 'Unknown')
		ORDER BY count DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	districts := make([]models.DistrictDistribution, 0)
	for rows.Next() {
		var d models.DistrictDistribution
		if err := rows.Scan(&d.District, &d.Count); err != nil {
			return nil, fmt.Errorf("decode district row: %w", err)
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}

// ScopeFilter builds the visibility predicate for a caller:
// super-admins see everything, district admins see their district (plus
// unresolved districts when the fallback is enabled), everyone else sees
// only their own complaints.
func ScopeFilter(userID uuid.UUID, role models.UserRole, district *string, unknownFallback bool) (string, []interface{}) {
	switch {
	case role == models.RoleSuperAdmin:
		return "", nil
	case role == models.RoleAdmin && district != nil && *district != "":
		if unknownFallback {
			return "(district = $1 OR district IS NULL)", []interface{}{*district}
		}
		return "district = $1", []interface{}{*district}
	default:
		return "user_id = $1", []interface{}{userID}
	}
}

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	var c models.Complaint
	err := row.Scan(&c.ID, &c.UserID, &c.UserName, &c.Title, &c.Description, &c.Category,
		&c.Address, &c.Latitude, &c.Longitude, &c.District, &c.PhotoURL, &c.Status,
		&c.DuplicateOf, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
