package passwordresettoken

import (
	"encoding/hex"
	"medportal/internal/core/domain/user"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var NOW time.Time = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestTokenFormat(t *testing.T) {
	issuer := NewRandom(Config{TTL: time.Hour}, func() time.Time { return NOW })

	token, expiresAt, err := issuer.IssueToken()

	require.Nil(t, err)
	require.Len(t, string(token), 2*TokenBytes)
	_, err = hex.DecodeString(string(token))
	require.Nil(t, err)
	require.Equal(t, NOW.Add(time.Hour), expiresAt)
}

func TestTokensAreUnique(t *testing.T) {
	issuer := NewRandom(Config{TTL: time.Minute}, time.Now)
	tokens := make(map[user.PasswordResetToken]struct{})
	for i := 0; i < 1000; i++ {
		token, _, err := issuer.IssueToken()
		require.Nil(t, err)
		_, exists := tokens[token]
		require.False(t, exists, "token %s already issued", token)
		tokens[token] = struct{}{}
	}
}

func TestDefaultTTL(t *testing.T) {
	issuer := NewRandom(Config{}, func() time.Time { return NOW })

	_, expiresAt, err := issuer.IssueToken()

	require.Nil(t, err)
	require.Equal(t, NOW.Add(DefaultTTL), expiresAt)
}
