// Package auth holds the access control decorators. WithAuthentication must
// wrap WithRole (or WithUser) so that the identity is resolved before the role
// is checked.
package auth

import (
	"context"
	"errors"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/logging"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
)

type contextSessionToken string

const CONTEXT_SESSION_TOKEN_KEY = contextSessionToken("sessionToken")

func WithSessionToken(ctx context.Context, token user.SessionToken) context.Context {
	return context.WithValue(ctx, CONTEXT_SESSION_TOKEN_KEY, token)
}

func SessionTokenFromContext(ctx context.Context) (user.SessionToken, bool) {
	token, ok := ctx.Value(CONTEXT_SESSION_TOKEN_KEY).(user.SessionToken)
	return token, ok && token != ""
}

type Input interface {
	WithAuthenticatedUserID(id user.ID) Input
}

type UserInput interface {
	Input
	GetAuthenticatedUserID() user.ID
	WithAuthenticatedUser(u user.User) UserInput
}

type serviceWithAuthentication[T Input, S any] struct {
	log               logging.Logger
	sessionRepository user.SessionRepository
	inner             services.Service[T, S]
}

func WithAuthentication[T Input, S any](
	log logging.Logger,
	sessionRepository user.SessionRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithAuthentication[T, S]{
		log:               log,
		sessionRepository: sessionRepository,
		inner:             inner,
	}
}

func (s *serviceWithAuthentication[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	token, ok := SessionTokenFromContext(ctx)
	if !ok {
		return result, user.ErrUnauthenticated
	}
	userID, err := s.sessionRepository.GetUserID(ctx, token)
	if errors.Is(err, user.ErrSessionDoesNotExist) {
		return result, user.ErrUnauthenticated
	}
	if err != nil {
		s.log.Error(ctx, "Could not get session.", logging.Entry("err", err))
		return result, err
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUserID(userID).(T))
}

type serviceWithUser[T UserInput, S any] struct {
	log            logging.Logger
	userRepository user.UserRepository
	roles          []user.Role
	inner          services.Service[T, S]
}

// WithRole re-reads the authenticated user on every call and lets the call
// through only if the stored role equals role.
func WithRole[T UserInput, S any](
	log logging.Logger,
	userRepository user.UserRepository,
	role user.Role,
	inner services.Service[T, S],
) services.Service[T, S] {
	if !role.IsValid() {
		panic(e.NewInvalidStateError("invalid role " + string(role)))
	}
	return newServiceWithUser(log, userRepository, []user.Role{role}, inner)
}

// WithUser loads the authenticated user without restricting the role.
func WithUser[T UserInput, S any](
	log logging.Logger,
	userRepository user.UserRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	return newServiceWithUser(log, userRepository, user.Roles, inner)
}

func newServiceWithUser[T UserInput, S any](
	log logging.Logger,
	userRepository user.UserRepository,
	roles []user.Role,
	inner services.Service[T, S],
) *serviceWithUser[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithUser[T, S]{
		log:            log,
		userRepository: userRepository,
		roles:          roles,
		inner:          inner,
	}
}

func (s *serviceWithUser[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	userID := input.GetAuthenticatedUserID()
	u, err := s.userRepository.GetByID(ctx, userID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Authenticated user does not exist.", logging.Entry("userID", userID))
		return result, user.ErrForbidden
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get authenticated user.",
			logging.Entry("userID", userID),
			logging.Entry("err", err),
		)
		return result, err
	}
	if !s.isAllowed(u.Role) {
		s.log.Info(
			ctx,
			"Access denied for user role.",
			logging.Entry("userID", userID),
			logging.Entry("role", u.Role),
		)
		return result, user.ErrForbidden
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u).(T))
}

func (s *serviceWithUser[T, S]) isAllowed(role user.Role) bool {
	for _, r := range s.roles {
		if r == role {
			return true
		}
	}
	return false
}
