package validatepasswordresettoken

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
	Token user.PasswordResetToken
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{log: log, userRepository: userRepository, now: now}
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
		s.log.Error(ctx, "Could not validate password reset token.", logging.Entry("err", err))
		return result, err
	}
	return Result{User: u}, nil
}
