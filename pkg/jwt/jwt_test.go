package jwt

import (
	"testing"
	"time"

	"emergency-referral/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(access time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  access,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidate_CarriesPermissions(t *testing.T) {
	svc := newTestService(time.Minute)
	id := Identity{
		UserID:             uuid.New(),
		Username:           "triage1",
		RoleID:             2,
		RoleName:           "call_triage",
		CanTriageReferrals: true,
	}

	token, tokenID, err := svc.GenerateAccessToken(id)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, id, claims.Identity())
}

func TestRefreshTokenType(t *testing.T) {
	svc := newTestService(time.Minute)
	token, _, err := svc.GenerateRefreshToken(Identity{UserID: uuid.New()})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := newTestService(-time.Minute)
	expired, _, err := svc.GenerateAccessToken(Identity{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
	foreign, _, err := other.GenerateAccessToken(Identity{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = newTestService(time.Minute).ValidateToken(foreign)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
