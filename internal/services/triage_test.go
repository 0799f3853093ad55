package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

type fakeTriageStore struct {
	complaints map[uuid.UUID]*models.Complaint
	updateErr  error
	statuses   []models.ComplaintStatus
}

func newFakeTriageStore(cs ...*models.Complaint) *fakeTriageStore {
	store := &fakeTriageStore{complaints: make(map[uuid.UUID]*models.Complaint)}
	for _, c := range cs {
		store.complaints[c.ID] = c
	}
	return store
}

func (f *fakeTriageStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.ComplaintStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statuses = append(f.statuses, status)
	if c, ok := f.complaints[id]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeTriageStore) GetByID(_ context.Context, id uuid.UUID) (*models.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, errors.New("complaint not found")
	}
	return c, nil
}

type fakeNotificationStore struct {
	created   []*models.Notification
	createErr error
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, n)
	return nil
}

func testComplaint() *models.Complaint {
	return &models.Complaint{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		UserName: "Asha",
		Title:    "Huge pothole",
		Status:   models.StatusPending,
	}
}

func TestUpdateStatusNotifiesReporterExactlyOnce(t *testing.T) {
	complaint := testComplaint()
	store := newFakeTriageStore(complaint)
	notifs := &fakeNotificationStore{}
	svc := NewTriageService(store, notifs, zap.NewNop().Sugar())

	updated, err := svc.UpdateStatus(context.Background(), complaint.ID, models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)

	require.Len(t, notifs.created, 1)
	n := notifs.created[0]
	assert.Equal(t, complaint.UserID, n.UserID)
	assert.Equal(t, complaint.ID, n.ComplaintID)
	assert.Equal(t, complaint.Title, n.ComplaintTitle)
	assert.Contains(t, n.Message, "Resolved")
	assert.False(t, n.Read)
}

func TestUpdateStatusAllowsAnyTransition(t *testing.T) {
	complaint := testComplaint()
	complaint.Status = models.StatusResolved
	store := newFakeTriageStore(complaint)
	notifs := &fakeNotificationStore{}
	svc := NewTriageService(store, notifs, zap.NewNop().Sugar())

	// Resolved back to Pending is legal; no transition graph is enforced.
	updated, err := svc.UpdateStatus(context.Background(), complaint.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Len(t, notifs.created, 1)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	complaint := testComplaint()
	store := newFakeTriageStore(complaint)
	svc := NewTriageService(store, &fakeNotificationStore{}, zap.NewNop().Sugar())

	_, err := svc.UpdateStatus(context.Background(), complaint.ID, "Escalated")
	require.Error(t, err)
	assert.Empty(t, store.statuses)
}

func TestUpdateStatusFailsWhenComplaintVanishes(t *testing.T) {
	store := newFakeTriageStore()
	notifs := &fakeNotificationStore{}
	svc := NewTriageService(store, notifs, zap.NewNop().Sugar())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), models.StatusInProgress)
	require.Error(t, err)
	assert.Empty(t, notifs.created)
}

func TestUpdateStatusSurfacesNotificationFailure(t *testing.T) {
	complaint := testComplaint()
	store := newFakeTriageStore(complaint)
	notifs := &fakeNotificationStore{createErr: errors.New("insert failed")}
	svc := NewTriageService(store, notifs, zap.NewNop().Sugar())

	_, err := svc.UpdateStatus(context.Background(), complaint.ID, models.StatusInProgress)
	require.Error(t, err)
}
