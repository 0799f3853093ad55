package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/geocode"
	"github.com/fixitnow/fixitnow-server/internal/models"
)

// ComplaintStore is the persistence surface the intake workflow needs.
// *ComplaintService satisfies it.
type ComplaintStore interface {
	Create(ctx context.Context, c *models.Complaint) error
	MarkDuplicate(ctx context.Context, id, duplicateOf uuid.UUID) error
}

// IssueIntelligence is the generative capability used during intake.
// *ai.Client satisfies it. A nil value means AI is not configured.
type IssueIntelligence interface {
	ClassifyIssue(ctx context.Context, photoDataURI string) (models.ComplaintCategory, error)
	DetectDuplicate(ctx context.Context, photoDataURI string, lat, lng float64, complaintID string) (*models.DuplicateVerdict, error)
}

// Geocoder resolves addresses and coordinates. *geocode.Client satisfies it.
type Geocoder interface {
	Forward(ctx context.Context, address string) (*models.GeoResult, error)
	Reverse(ctx context.Context, lat, lng float64) (*models.GeoResult, error)
}

// ImageHost uploads a photo and returns its public URL. *imghost.Client
// satisfies it. A nil value means uploads are not configured.
type ImageHost interface {
	Upload(ctx context.Context, photoDataURI string) (string, error)
}

// IntakeService runs the complaint submission workflow. Classification,
// photo upload, geocoding and duplicate detection are enhancements that
// fail soft; only the complaint insert fails hard.
type IntakeService struct {
	store          ComplaintStore
	intel          IssueIntelligence
	geocoder       Geocoder
	images         ImageHost
	knownDistricts []string
	logger         *zap.SugaredLogger
}

// NewIntakeService creates the intake workflow. intel and images may be nil
// when the corresponding capability is unconfigured.
func NewIntakeService(store ComplaintStore, intel IssueIntelligence, geocoder Geocoder, images ImageHost, knownDistricts []string, logger *zap.SugaredLogger) *IntakeService {
	return &IntakeService{
		store:          store,
		intel:          intel,
		geocoder:       geocoder,
		images:         images,
		knownDistricts: knownDistricts,
		logger:         logger,
	}
}

// Submit validates and persists a new complaint for the given reporter.
func (s *IntakeService) Submit(ctx context.Context, reporterID uuid.UUID, reporterName string, req *models.ComplaintSubmission) (*models.Complaint, error) {
	// Reject before any external call is made.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. Refine the category from the photo when the reporter picked "other".
	category := req.Category
	if req.PhotoDataURI != "" && category == models.CategoryOther && s.intel != nil {
		refined, err := s.intel.ClassifyIssue(ctx, req.PhotoDataURI)
		if err != nil {
			s.logger.Warnw("AI classification failed", "error", err)
		} else {
			category = refined
		}
	}

	// 2. Upload the photo; the complaint survives without it.
	var photoURL *string
	if req.PhotoDataURI != "" {
		if s.images == nil {
			s.logger.Warn("Image host not configured, proceeding without photo upload")
		} else if url, err := s.images.Upload(ctx, req.PhotoDataURI); err != nil {
			s.logger.Warnw("Photo upload failed, proceeding without photo", "error", err)
		} else {
			photoURL = &url
		}
	}

	// 3. Resolve location and district.
	address, lat, lng, district := s.resolveLocation(ctx, req)

	complaint := &models.Complaint{
		ID:          uuid.New(),
		UserID:      reporterID,
		UserName:    reporterName,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Address:     address,
		Latitude:    lat,
		Longitude:   lng,
		Status:      models.StatusPending,
	}
	if district != "" {
		complaint.District = &district
	}
	complaint.PhotoURL = photoURL

	// 4. Persist. This is the only hard failure in the workflow.
	if err := s.store.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	// 5. Duplicate detection needs a photo, resolved coordinates and AI.
	if req.PhotoDataURI != "" && (lat != 0 || lng != 0) && s.intel != nil {
		s.detectDuplicate(ctx, complaint, req.PhotoDataURI)
	}

	s.logger.Infow("Complaint submitted",
		"id", complaint.ID,
		"category", complaint.Category,
		"district", complaint.DistrictLabel(),
		"has_photo", photoURL != nil,
	)
	return complaint, nil
}

// resolveLocation applies the address/coordinate precedence rules. Every
// geocoding failure leaves the corresponding field at its prior value.
func (s *IntakeService) resolveLocation(ctx context.Context, req *models.ComplaintSubmission) (address string, lat, lng float64, district string) {
	address = strings.TrimSpace(req.Address)
	if req.Latitude != nil {
		lat = *req.Latitude
	}
	if req.Longitude != nil {
		lng = *req.Longitude
	}

	if address != "" {
		// (a) Manual address matched against the known district names.
		if d, ok := geocode.MatchDistrict(address, s.knownDistricts); ok {
			district = d
		}

		// (b) Forward geocode for authoritative coordinates; the geocoder
		// overrules any caller-supplied GPS fix.
		geo, err := s.geocoder.Forward(ctx, address)
		if err != nil {
			s.logger.Warnw("Forward geocoding failed", "error", err)
			return
		}
		lat, lng = geo.Latitude, geo.Longitude
		if district == "" {
			district = geo.District
		}
		return
	}

	// (c) Coordinates only: reverse geocode for district and display address.
	if req.HasCoordinates() {
		geo, err := s.geocoder.Reverse(ctx, lat, lng)
		if err != nil {
			s.logger.Warnw("Reverse geocoding failed", "error", err)
			return
		}
		address = geo.DisplayName
		district = geo.District
	}
	return
}

// detectDuplicate runs the one-shot duplicate judgment and, on a positive
// verdict, links the new complaint and forces it to Resolved. Failures are
// logged and otherwise ignored.
func (s *IntakeService) detectDuplicate(ctx context.Context, complaint *models.Complaint, photoDataURI string) {
	verdict, err := s.intel.DetectDuplicate(ctx, photoDataURI, complaint.Latitude, complaint.Longitude, complaint.ID.String())
	if err != nil {
		s.logger.Warnw("AI duplicate detection failed", "complaint_id", complaint.ID, "error", err)
		return
	}
	if !verdict.IsDuplicate || verdict.DuplicateComplaintID == "" {
		return
	}

	dupID, err := uuid.Parse(verdict.DuplicateComplaintID)
	if err != nil || dupID == complaint.ID {
		s.logger.Warnw("Duplicate verdict referenced unusable id",
			"complaint_id", complaint.ID, "referenced", verdict.DuplicateComplaintID)
		return
	}

	if err := s.store.MarkDuplicate(ctx, complaint.ID, dupID); err != nil {
		s.logger.Warnw("Failed to record duplicate link", "complaint_id", complaint.ID, "error", err)
		return
	}

	complaint.DuplicateOf = &dupID
	complaint.Status = models.StatusResolved
	s.logger.Infow("Complaint marked as duplicate",
		"complaint_id", complaint.ID,
		"duplicate_of", dupID,
		"reason", verdict.Reason,
	)
}
