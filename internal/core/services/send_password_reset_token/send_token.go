package sendpasswordresettoken

import (
	"context"
	"errors"
	"fmt"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/logging"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
)

type serviceWithTokenSending struct {
	log    logging.Logger
	sender user.PasswordResetTokenSender
	inner  services.Service[Input, Result]
}

// NewWithTokenSending delivers the token issued by inner. A delivery failure
// is reported with ErrPasswordResetTokenNotSent while the stored token is kept.
func NewWithTokenSending(
	log logging.Logger,
	sender user.PasswordResetTokenSender,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithTokenSending{
		log:    log,
		sender: sender,
		inner:  inner,
	}
}

func (s *serviceWithTokenSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Info(ctx, "Skip sending password reset token.", logging.Entry("err", err))
		return result, err
	}

	err = s.sender.SendPasswordResetToken(ctx, result.User, result.Token)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userId", result.User.ID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %w", user.ErrPasswordResetTokenNotSent, err)
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent to the user.",
		logging.Entry("userId", result.User.ID),
	)
	return result, nil
}
