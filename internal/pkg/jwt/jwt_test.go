package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager("test-secret", time.Hour, 24*time.Hour)
}

func TestGeneratePairRoundTrip(t *testing.T) {
	m := testManager()

	pair, err := m.GeneratePair(7, "alice", "moderator")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, 3600, pair.ExpiresIn)

	access, err := m.Parse(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 7, access.UserID)
	assert.Equal(t, "alice", access.Username)
	assert.Equal(t, "moderator", access.Role)
	assert.Equal(t, TypeAccess, access.TokenType)
	assert.NotEmpty(t, access.ID)

	refresh, err := m.Parse(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, refresh.TokenType)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := testManager().GenerateAccess(1, "alice", "user")
	require.NoError(t, err)

	other := NewManager("different-secret", time.Hour, 24*time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := testManager().Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccess(1, "alice", "user")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc123", want: "abc123"},
		{name: "empty", header: "", wantErr: true},
		{name: "missing prefix", header: "abc123", wantErr: true},
		{name: "wrong scheme", header: "Basic abc123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
