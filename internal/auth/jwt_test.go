package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeslam/CarRentalManager-sub003/internal/model"
)

func testUser() *model.UserModel {
	return &model.UserModel{
		ID:       "user-1",
		Username: "jdoe",
		Role:     model.RoleStaff,
	}
}

func TestIssueAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := tm.Issue(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, model.RoleStaff, claims.Role)
	assert.Equal(t, "rental-manager", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	_, err := tm.Validate("not.a.token")
	assert.Error(t, err)
	_, err = tm.Validate("")
	assert.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	_, expiresAt, err := tm.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)
}
