// Package models defines the data structures used across the application.
// These map to the PostgreSQL schema in internal/database.
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ComplaintCategory is the closed set of reportable issue types.
type ComplaintCategory string

const (
	CategoryPothole  ComplaintCategory = "pothole"
	CategoryTreeFall ComplaintCategory = "tree fall"
	CategoryGarbage  ComplaintCategory = "garbage"
	CategoryStrayDog ComplaintCategory = "stray dog"
	CategoryOther    ComplaintCategory = "other"
)

// Valid reports whether c is one of the known categories.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryPothole, CategoryTreeFall, CategoryGarbage, CategoryStrayDog, CategoryOther:
		return true
	}
	return false
}

// ComplaintStatus is the admin-driven lifecycle state of a complaint.
// No transition graph is enforced; any status may follow any other.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
)

// Valid reports whether s is one of the known statuses.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// UserRole controls admission to the admin surfaces and list scoping.
type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super-admin"
)

// IsAdmin reports whether the role grants access to privileged views.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// DistrictUnknown is the label rendered for complaints whose district
// could not be resolved.
const DistrictUnknown = "Unknown"

// Complaint is a citizen-submitted issue report.
// District, PhotoURL and DuplicateOf are genuinely optional and stored as
// NULL rather than sentinel empty strings.
type Complaint struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	UserID      uuid.UUID         `json:"user_id" db:"user_id"`
	UserName    string            `json:"user_name" db:"user_name"`
	Title       string            `json:"title" db:"title"`
	Description string            `json:"description" db:"description"`
	Category    ComplaintCategory `json:"category" db:"category"`
	Address     string            `json:"address" db:"address"`
	Latitude    float64           `json:"latitude" db:"latitude"`
	Longitude   float64           `json:"longitude" db:"longitude"`
	District    *string           `json:"district,omitempty" db:"district"`
	PhotoURL    *string           `json:"photo_url,omitempty" db:"photo_url"`
	Status      ComplaintStatus   `json:"status" db:"status"`
	DuplicateOf *uuid.UUID        `json:"duplicate_of,omitempty" db:"duplicate_of"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

// DistrictLabel returns the resolved district or "Unknown".
func (c *Complaint) DistrictLabel() string {
	if c.District == nil || *c.District == "" {
		return DistrictUnknown
	}
	return *c.District
}

// ComplaintSubmission is the request body for filing a new complaint.
// The photo travels as a data URI ("data:<mime>;base64,<data>") so the
// server can hand it to the classifier and the image host unchanged.
type ComplaintSubmission struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Address      string            `json:"address"`
	Category     ComplaintCategory `json:"category"`
	PhotoDataURI string            `json:"photo_data_uri,omitempty"`
	Latitude     *float64          `json:"latitude,omitempty"`
	Longitude    *float64          `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the caller supplied a GPS fix.
func (s *ComplaintSubmission) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Validate rejects malformed submissions before any external call is made.
// An address may be omitted only when coordinates are supplied; reverse
// geocoding then fills it in.
func (s *ComplaintSubmission) Validate() error {
	if len(strings.TrimSpace(s.Title)) < 5 {
		return errors.New("title must be at least 5 characters")
	}
	if len(strings.TrimSpace(s.Description)) < 10 {
		return errors.New("description must be at least 10 characters")
	}
	addr := strings.TrimSpace(s.Address)
	if addr == "" {
		if !s.HasCoordinates() {
			return errors.New("address must be at least 10 characters")
		}
	} else if len(addr) < 10 {
		return errors.New("address must be at least 10 characters")
	}
	if !s.Category.Valid() {
		return errors.New("unknown category")
	}
	return nil
}

// DuplicateVerdict is the duplicate-judgment capability's answer.
// DuplicateComplaintID is whatever id the model referenced; callers must
// parse and verify it before acting on it.
type DuplicateVerdict struct {
	IsDuplicate          bool   `json:"isDuplicate"`
	DuplicateComplaintID string `json:"duplicateComplaintId,omitempty"`
	Reason               string `json:"reason,omitempty"`
}

// ExtractedReport is the chatbot free-text extraction result.
type ExtractedReport struct {
	Category            string `json:"category"`
	LocationDescription string `json:"locationDescription"`
	Description         string `json:"description"`
}

// GeoResult is a geocoder lookup answer (forward or reverse).
type GeoResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
	District    string  `json:"district,omitempty"`
}

// UserProfile is an account record. Role and district are operator-assigned;
// there is no in-app promotion flow.
type UserProfile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	District     *string   `json:"district,omitempty" db:"district"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Notification tells a reporter that an admin touched their complaint.
type Notification struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	ComplaintID    uuid.UUID `json:"complaint_id" db:"complaint_id"`
	ComplaintTitle string    `json:"complaint_title" db:"complaint_title"`
	Message        string    `json:"message" db:"message"`
	Read           bool      `json:"read" db:"read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest is the request body for first sign-up.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// LoginRequest is the request body for email/password sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token and the signed-in profile.
type AuthResponse struct {
	Token   string       `json:"token"`
	Profile *UserProfile `json:"profile"`
}

// StatusUpdateRequest is the triage request body.
type StatusUpdateRequest struct {
	Status ComplaintStatus `json:"status"`
}

// ChatbotRequest is the free-text extraction request body.
type ChatbotRequest struct {
	UserInput string `json:"user_input"`
}

// HeatmapPoint is one weighted coordinate for the density map.
type HeatmapPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Weight    int     `json:"weight"`
}

// AnalyticsTrend represents complaint submissions per day.
type AnalyticsTrend struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CategoryDistribution for pie/bar charts.
type CategoryDistribution struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DistrictDistribution for the district breakdown on the admin dashboard.
type DistrictDistribution struct {
	District string `json:"district"`
	Count    int    `json:"count"`
}

// HealthStatus represents the server health check response.
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Database string `json:"database,omitempty"`
}
