package email

import (
	"context"
	"net/url"

	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/logging"
	"medportal/internal/core/domain/user"
)

type LogSender struct {
	log                  logging.Logger
	passwordResetBaseUrl url.URL
}

func NewLogSender(log logging.Logger, passwordResetBaseUrl url.URL) *LogSender {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &LogSender{log: log, passwordResetBaseUrl: passwordResetBaseUrl}
}

func (s *LogSender) SendPasswordResetToken(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	s.log.Info(
		ctx,
		"Password reset link.",
		logging.Entry("userID", u.ID),
		logging.Entry("email", u.Email),
		logging.Entry("passwordResetUrl", s.passwordResetBaseUrl.JoinPath(string(token)).String()),
	)
	return nil
}
