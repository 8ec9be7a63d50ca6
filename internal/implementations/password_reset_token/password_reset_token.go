package passwordresettoken

import (
	"crypto/rand"
	"encoding/hex"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/user"
	"time"
)

const (
	TokenBytes = 20
	DefaultTTL = time.Hour
)

type Config struct {
	TTL time.Duration
}

type Random struct {
	ttl time.Duration
	now func() time.Time
}

func NewRandom(config Config, now func() time.Time) *Random {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Random{ttl: ttl, now: now}
}

func (r *Random) IssueToken() (token user.PasswordResetToken, expiresAt time.Time, err error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return token, expiresAt, err
	}
	return user.PasswordResetToken(hex.EncodeToString(b)), r.now().Add(r.ttl), nil
}
