package booking

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// TokenPrefix marks anonymous booking tokens.
const TokenPrefix = "bks_"

const (
	tokenTimeBytes   = 8
	tokenRandomBytes = 24
	// tokenClockSkew tolerates issuers whose clock runs slightly ahead.
	tokenClockSkew = time.Minute
)

// NewToken issues an anonymous session token embedding its issue time.
func NewToken(now time.Time) (string, error) {
	raw := make([]byte, tokenTimeBytes+tokenRandomBytes)
	binary.BigEndian.PutUint64(raw[:tokenTimeBytes], uint64(now.Unix()))
	if _, err := rand.Read(raw[tokenTimeBytes:]); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return TokenPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// ValidateToken checks prefix, structure and age. It never touches storage.
func ValidateToken(token string, now time.Time, maxAge time.Duration) error {
	if !strings.HasPrefix(token, TokenPrefix) {
		return newUnauthorizedError("malformed booking token")
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(token, TokenPrefix))
	if err != nil || len(raw) != tokenTimeBytes+tokenRandomBytes {
		return newUnauthorizedError("malformed booking token")
	}

	issuedAt := time.Unix(int64(binary.BigEndian.Uint64(raw[:tokenTimeBytes])), 0)
	if issuedAt.After(now.Add(tokenClockSkew)) {
		return newUnauthorizedError("booking token issued in the future")
	}
	if now.Sub(issuedAt) > maxAge {
		return newUnauthorizedError("booking token has expired")
	}
	return nil
}
