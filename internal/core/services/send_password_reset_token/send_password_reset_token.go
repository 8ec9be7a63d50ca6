package sendpasswordresettoken

import (
	"context"
	"errors"
	c "medportal/internal/core/domain/common"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/logging"
	uow "medportal/internal/core/domain/unit_of_work"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	"time"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "send-password-reset-token::" + string(i.Email)
}

type Result struct {
	User      user.User
	Token     user.PasswordResetToken
	ExpiresAt time.Time
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	issuer     user.PasswordResetTokenIssuer
}

// New issues a fresh token and stores it for the user, replacing the previous
// one. The row is locked while the token is written, so concurrent requests for
// the same email are applied one after another and only the last token stays valid.
func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	issuer user.PasswordResetTokenIssuer,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if issuer == nil {
		panic(e.NewNilArgumentError("issuer"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		issuer:     issuer,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not begin unit of work.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByEmailForUpdate(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.", logging.Entry("email", input.Email))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user by email.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	token, expiresAt, err := s.issuer.IssueToken()
	if err != nil {
		s.log.Error(ctx, "Could not issue password reset token.", logging.Entry("err", err))
		return result, err
	}

	err = uow.Users().SetPasswordResetToken(ctx, u.ID, token, expiresAt)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not set password reset token.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("userId", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	u.PasswordResetToken = c.NewOptional(token, true)
	u.PasswordResetTokenExpiresAt = c.NewOptional(expiresAt, true)
	s.log.Info(
		ctx,
		"Password reset token has been issued.",
		logging.Entry("userId", u.ID),
		logging.Entry("expiresAt", expiresAt),
	)
	return Result{User: u, Token: token, ExpiresAt: expiresAt}, nil
}
