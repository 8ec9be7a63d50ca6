package resetpassword

import (
	"context"
	"errors"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/logging"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	"time"
)

type Input struct {
	Token       user.PasswordResetToken
	NewPassword user.RawPassword
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
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
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrInvalidPasswordResetToken
	}
	u, err := s.userRepository.GetByValidPasswordResetToken(ctx, input.Token, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		s.log.Info(ctx, "Password reset token is invalid or expired.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by password reset token.", logging.Entry("err", err))
		return result, err
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("userId", u.ID), logging.Entry("err", err))
		return result, err
	}

	// Hashing is slow, so the token is checked again when it is consumed.
	u, err = s.userRepository.ResetPasswordByToken(ctx, input.Token, s.now(), newPasswordHash)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		s.log.Info(ctx, "Password reset token has been consumed or expired meanwhile.")
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not reset user password.",
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userId", u.ID),
	)
	return Result{User: u}, nil
}
