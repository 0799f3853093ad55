package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

// TriageStore is the persistence surface the triage workflow needs.
// *ComplaintService satisfies it.
type TriageStore interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
}

// NotificationStore records user notifications. *NotificationService
// satisfies it.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// TriageService updates a complaint's status and notifies the reporter.
// Both steps are core; either failure surfaces on the single error channel.
type TriageService struct {
	store  TriageStore
	notifs NotificationStore
	logger *zap.SugaredLogger
}

// NewTriageService creates the triage workflow.
func NewTriageService(store TriageStore, notifs NotificationStore, logger *zap.SugaredLogger) *TriageService {
	return &TriageService{store: store, notifs: notifs, logger: logger}
}

// UpdateStatus overwrites the status unconditionally, re-reads the record
// and creates exactly one unread notification for the original reporter.
func (s *TriageService) UpdateStatus(ctx context.Context, complaintID uuid.UUID, status models.ComplaintStatus) (*models.Complaint, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}

	if err := s.store.UpdateStatus(ctx, complaintID, status); err != nil {
		return nil, err
	}

	complaint, err := s.store.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	notif := &models.Notification{
		ID:             uuid.New(),
		UserID:         complaint.UserID,
		ComplaintID:    complaint.ID,
		ComplaintTitle: complaint.Title,
		Message:        fmt.Sprintf("The status of your complaint %q has been updated to %s.", complaint.Title, status),
	}
	if err := s.notifs.Create(ctx, notif); err != nil {
		return nil, err
	}

	s.logger.Infow("Complaint status updated",
		"complaint_id", complaint.ID,
		"status", status,
	)
	return complaint, nil
}
