package jwt

import (
	"testing"

	"foodgram/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	service := NewJWTService()
	userID := uuid.NewString()

	token := service.GenerateTokenUser(userID, domain.RoleUser)
	require.NotEmpty(t, token)

	gotID, gotRole, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, domain.RoleUser, gotRole)
}

func TestInvalidToken(t *testing.T) {
	service := NewJWTService()

	_, _, err := service.GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// a token signed with a different key must not validate
	other := &jwtService{secretKey: "other-secret", issuer: "FOODGRAM"}
	token := other.GenerateTokenUser(uuid.NewString(), domain.RoleUser)
	service = &jwtService{secretKey: "real-secret", issuer: "FOODGRAM"}
	_, _, err = service.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
