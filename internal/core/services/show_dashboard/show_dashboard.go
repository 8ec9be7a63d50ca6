package showdashboard

import (
	"context"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/logging"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	"medportal/internal/core/services/auth"
)

type Input struct {
	UserID user.ID
	User   user.User
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

type Result struct {
	User user.User
}

type service struct {
	log logging.Logger
}

// New returns the dashboard view service. It must be wrapped with
// auth.WithAuthentication and auth.WithRole.
func New(log logging.Logger) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &service{log: log}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	s.log.Debug(
		ctx,
		"Dashboard requested.",
		logging.Entry("userID", input.User.ID),
		logging.Entry("role", input.User.Role),
	)
	return Result{User: input.User}, nil
}
