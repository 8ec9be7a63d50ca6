package changepassword

import (
	"context"
	"errors"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/logging"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	"medportal/internal/core/services/auth"
)

type Input struct {
	CurrentPassword user.RawPassword
	NewPassword     user.RawPassword
	UserID          user.ID
	User            user.User
}

func (i Input) WithAuthenticatedUserID(id user.ID) auth.Input {
	i.UserID = id
	return i
}

func (i Input) GetAuthenticatedUserID() user.ID {
	return i.UserID
}

func (i Input) WithAuthenticatedUser(u user.User) auth.UserInput {
	i.User = u
	return i
}

type Result struct{}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	return &service{
		log:            log,
		passwordHasher: passwordHasher,
		userRepository: userRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	isCurrentPasswordValid := s.passwordHasher.ValidatePassword(
		input.CurrentPassword,
		input.User.PasswordHash,
	)
	if !isCurrentPasswordValid {
		s.log.Info(ctx, "Current password is invalid.", logging.Entry("userId", input.User.ID))
		return result, user.ErrInvalidCredentials
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}
	err = s.userRepository.UpdatePassword(ctx, input.User.ID, newPasswordHash)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userId", input.User.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "Password has been changed.", logging.Entry("userId", input.User.ID))
	return Result{}, nil
}
