package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists          = errors.New("email already exists")
	ErrUserDoesNotExist            = errors.New("user does not exist")
	ErrInvalidCredentials          = errors.New("invalid credentials")
	ErrSessionDoesNotExist         = errors.New("session does not exist")
	ErrInvalidPasswordResetToken   = errors.New("invalid or expired password reset token")
	ErrDuplicatePasswordResetToken = errors.New("password reset token is assigned to more than one user")
	ErrPasswordResetTokenNotSent   = errors.New("password reset token could not be sent")
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)
