package signupwithemail

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
	Name     string
	Email    c.Email
	Password user.RawPassword
	Role     c.Optional[user.Role]
}

type Result struct {
	User  user.User
	Token user.SessionToken
}

type service struct {
	log                   logging.Logger
	unitOfWork            uow.UnitOfWork
	sessionRepository     user.SessionRepository
	passwordHasher        user.PasswordHasher
	sessionTokenGenerator user.SessionTokenGenerator
	now                   func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	sessionRepository user.SessionRepository,
	passwordHasher user.PasswordHasher,
	sessionTokenGenerator user.SessionTokenGenerator,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if sessionTokenGenerator == nil {
		panic(e.NewNilArgumentError("sessionTokenGenerator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                   log,
		unitOfWork:            unitOfWork,
		sessionRepository:     sessionRepository,
		passwordHasher:        passwordHasher,
		sessionTokenGenerator: sessionTokenGenerator,
		now:                   now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	role := user.DefaultRole
	if input.Role.IsPresent {
		role = input.Role.Value
	}
	if !role.IsValid() {
		return result, e.NewInvalidStateError("invalid role " + string(role))
	}

	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

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

	createdUser, err := uow.Users().Create(ctx, user.CreateUserInput{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrEmailAlreadyExists) {
		s.log.Info(
			ctx,
			"User with the email already exists.",
			logging.Entry("email", input.Email),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create new user.",
			logging.Entry("email", input.Email),
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
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}
	s.log.Info(ctx, "New user has been created.", logging.Entry("user", createdUser))

	sessionToken := s.sessionTokenGenerator.GenerateToken()
	err = s.sessionRepository.Create(ctx, user.CreateSessionInput{
		UserID:    createdUser.ID,
		Token:     sessionToken,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create session for new user.",
			logging.Entry("userID", createdUser.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	return Result{User: createdUser, Token: sessionToken}, nil
}
