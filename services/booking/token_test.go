package booking

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenValidates(t *testing.T) {
	now := time.Now()
	tok, err := NewToken(now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok, TokenPrefix))
	assert.NoError(t, ValidateToken(tok, now.Add(time.Hour), 2*time.Hour))

	other, err := NewToken(now)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestValidateTokenRejects(t *testing.T) {
	now := time.Now()
	fresh, err := NewToken(now)
	require.NoError(t, err)
	stale, err := NewToken(now.Add(-3 * time.Hour))
	require.NoError(t, err)
	future, err := NewToken(now.Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"missing prefix", strings.TrimPrefix(fresh, TokenPrefix)},
		{"wrong prefix", "tok_" + strings.TrimPrefix(fresh, TokenPrefix)},
		{"not base64", TokenPrefix + "!!!not-base64!!!"},
		{"short body", TokenPrefix + base64.RawURLEncoding.EncodeToString([]byte("short"))},
		{"stale", stale},
		{"issued in future", future},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToken(tt.token, now, 2*time.Hour)
			require.Error(t, err)
			be, ok := AsBookingError(err)
			require.True(t, ok)
			assert.Equal(t, KindUnauthorized, be.Kind)
		})
	}
}
