package user

import (
	"context"
	"time"
)

type PasswordResetToken string

func (t PasswordResetToken) String() string {
	return "***"
}

type PasswordResetTokenIssuer interface {
	IssueToken() (token PasswordResetToken, expiresAt time.Time, err error)
}

type PasswordResetTokenSender interface {
	SendPasswordResetToken(ctx context.Context, user User, token PasswordResetToken) error
}
