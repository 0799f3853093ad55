package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func validSubmission() *ComplaintSubmission {
	return &ComplaintSubmission{
		Title:       "Huge pothole",
		Description: "A deep pothole near the school gate.",
		Address:     "12 Elm Street, North Ward",
		Category:    CategoryPothole,
	}
}

func TestValidateAcceptsWellFormedSubmission(t *testing.T) {
	require.NoError(t, validSubmission().Validate())
}

func TestValidateRejectsShortTitle(t *testing.T) {
	s := validSubmission()
	s.Title = "Pit"
	assert.Error(t, s.Validate())

	// Whitespace padding doesn't help.
	s.Title = "  Pit   "
	assert.Error(t, s.Validate())
}

func TestValidateRejectsShortDescription(t *testing.T) {
	s := validSubmission()
	s.Description = "bad road"
	assert.Error(t, s.Validate())
}

func TestValidateRejectsShortAddress(t *testing.T) {
	s := validSubmission()
	s.Address = "12 Elm"
	assert.Error(t, s.Validate())
}

func TestValidateAllowsEmptyAddressWithCoordinates(t *testing.T) {
	s := validSubmission()
	s.Address = ""
	assert.Error(t, s.Validate())

	s.Latitude = floatPtr(28.6139)
	s.Longitude = floatPtr(77.2090)
	assert.NoError(t, s.Validate())
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	s := validSubmission()
	s.Category = "flooding"
	assert.Error(t, s.Validate())
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []ComplaintCategory{CategoryPothole, CategoryTreeFall, CategoryGarbage, CategoryStrayDog, CategoryOther} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, ComplaintCategory("flooding").Valid())
	assert.False(t, ComplaintCategory("").Valid())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, ComplaintStatus("Escalated").Valid())
	// Status values are case-sensitive.
	assert.False(t, ComplaintStatus("pending").Valid())
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.False(t, RoleUser.IsAdmin())
	assert.False(t, UserRole("").IsAdmin())
}

func TestDistrictLabel(t *testing.T) {
	c := &Complaint{}
	assert.Equal(t, DistrictUnknown, c.DistrictLabel())

	empty := ""
	c.District = &empty
	assert.Equal(t, DistrictUnknown, c.DistrictLabel())

	north := "North Ward"
	c.District = &north
	assert.Equal(t, "North Ward", c.DistrictLabel())
}

func TestHasCoordinates(t *testing.T) {
	s := &ComplaintSubmission{}
	assert.False(t, s.HasCoordinates())

	s.Latitude = floatPtr(1)
	assert.False(t, s.HasCoordinates())

	s.Longitude = floatPtr(2)
	assert.True(t, s.HasCoordinates())
}
