package user

import (
	"fmt"
	c "medportal/internal/core/domain/common"
	e "medportal/internal/core/domain/errors"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID                          ID
	Name                        string
	Email                       c.Email
	PasswordHash                PasswordHash
	Role                        Role
	CreatedAt                   time.Time
	PasswordResetToken          c.Optional[PasswordResetToken]
	PasswordResetTokenExpiresAt c.Optional[time.Time]
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	if !u.Role.IsValid() {
		return e.NewInvalidStateError(fmt.Sprintf("invalid role %q for user %d", u.Role, u.ID))
	}
	if u.PasswordResetToken.IsPresent != u.PasswordResetTokenExpiresAt.IsPresent {
		return e.NewInvalidStateError(
			fmt.Sprintf("password reset token and its expiry must be set together for user %d", u.ID),
		)
	}
	return nil
}

// HasValidPasswordResetToken reports whether token matches the stored one and has not expired at now.
func (u *User) HasValidPasswordResetToken(token PasswordResetToken, now time.Time) bool {
	if !u.PasswordResetToken.IsPresent || !u.PasswordResetTokenExpiresAt.IsPresent {
		return false
	}
	if u.PasswordResetToken.Value != token {
		return false
	}
	return u.PasswordResetTokenExpiresAt.Value.After(now)
}

func (u User) String() string {
	return fmt.Sprintf("User{ID: %d, Email: %s, Role: %s}", u.ID, u.Email, u.Role)
}
