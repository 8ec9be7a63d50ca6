package user

import (
	"context"
	c "medportal/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Name         string
	Email        c.Email
	PasswordHash PasswordHash
	Role         Role
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	// GetByEmailForUpdate locks the user row until the surrounding transaction ends.
	GetByEmailForUpdate(ctx context.Context, email c.Email) (User, error)
	GetByValidPasswordResetToken(ctx context.Context, token PasswordResetToken, now time.Time) (User, error)
	SetPasswordResetToken(ctx context.Context, id ID, token PasswordResetToken, expiresAt time.Time) error
	// UpdatePassword also clears the password reset token.
	UpdatePassword(ctx context.Context, id ID, password PasswordHash) error
	// ResetPasswordByToken sets the password and clears the token only if the token
	// is still stored and not expired at now, as a single atomic step.
	ResetPasswordByToken(
		ctx context.Context,
		token PasswordResetToken,
		now time.Time,
		password PasswordHash,
	) (User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, input CreateSessionInput) error
	GetUserID(ctx context.Context, token SessionToken) (ID, error)
	Delete(ctx context.Context, token SessionToken) (userID ID, err error)
}
