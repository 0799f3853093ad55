package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

func TestScopeFilterSuperAdminSeesAll(t *testing.T) {
	clause, args := ScopeFilter(uuid.New(), models.RoleSuperAdmin, nil, true)
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestScopeFilterDistrictAdminWithFallback(t *testing.T) {
	district := "North"
	clause, args := ScopeFilter(uuid.New(), models.RoleAdmin, &district, true)
	assert.Equal(t, "(district = $1 OR district IS NULL)", clause)
	require.Len(t, args, 1)
	assert.Equal(t, "North", args[0])
}

func TestScopeFilterDistrictAdminWithoutFallback(t *testing.T) {
	district := "North"
	clause, args := ScopeFilter(uuid.New(), models.RoleAdmin, &district, false)
	assert.Equal(t, "district = $1", clause)
	require.Len(t, args, 1)
	assert.Equal(t, "North", args[0])
}

func TestScopeFilterPlainUserSeesOwnOnly(t *testing.T) {
	userID := uuid.New()
	clause, args := ScopeFilter(userID, models.RoleUser, nil, true)
	assert.Equal(t, "user_id = $1", clause)
	require.Len(t, args, 1)
	assert.Equal(t, userID, args[0])
}

func TestScopeFilterAdminWithoutDistrictFallsBackToOwn(t *testing.T) {
	// An admin with no assigned district gets no district scope; treat
	// them like a plain user rather than exposing everything.
	userID := uuid.New()
	clause, args := ScopeFilter(userID, models.RoleAdmin, nil, true)
	assert.Equal(t, "user_id = $1", clause)
	require.Len(t, args, 1)
	assert.Equal(t, userID, args[0])
}
