package authz

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitnow/fixitnow-server/internal/models"
)

const testSecret = "test-secret"

func testProfile(role models.UserRole, district *string) *models.UserProfile {
	return &models.UserProfile{
		ID:       uuid.New(),
		Name:     "Asha",
		Email:    "asha@example.com",
		Role:     role,
		District: district,
	}
}

func TestSignParseRoundTrip(t *testing.T) {
	district := "North Ward"
	profile := testProfile(models.RoleAdmin, &district)

	token, err := Sign(testSecret, profile, time.Hour)
	require.NoError(t, err)

	ident, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, ident.UserID)
	assert.Equal(t, "Asha", ident.Name)
	assert.Equal(t, models.RoleAdmin, ident.Role)
	require.NotNil(t, ident.District)
	assert.Equal(t, "North Ward", *ident.District)
}

func TestParseOmitsDistrictWhenUnset(t *testing.T) {
	token, err := Sign(testSecret, testProfile(models.RoleUser, nil), time.Hour)
	require.NoError(t, err)

	ident, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Nil(t, ident.District)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := Sign(testSecret, testProfile(models.RoleUser, nil), -time.Minute)
	require.NoError(t, err)

	_, err = Parse(testSecret, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Sign(testSecret, testProfile(models.RoleUser, nil), time.Hour)
	require.NoError(t, err)

	_, err = Parse("other-secret", token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(testSecret, "not.a.token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = Parse(testSecret, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIdentityContextRoundTrip(t *testing.T) {
	ident := &Identity{UserID: uuid.New(), Name: "Asha", Role: models.RoleUser}

	ctx := WithIdentity(context.Background(), ident)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, ident, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
