package auth

import (
	"context"
	"fmt"
	c "medportal/internal/core/domain/common"
	"medportal/internal/core/domain/logging"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const SESSION_TOKEN = user.SessionToken("test-session-token")

var NOW = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type input struct {
	UserID user.ID
	User   user.User
}

func (i input) WithAuthenticatedUserID(id user.ID) Input {
	i.UserID = id
	return i
}

func (i input) GetAuthenticatedUserID() user.ID {
	return i.UserID
}

func (i input) WithAuthenticatedUser(u user.User) UserInput {
	i.User = u
	return i
}

type result struct {
	User user.User
}

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	UserRepository    *user.FakeUserRepository
	SessionRepository *user.FakeSessionRepository
	innerCalls        int
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.UserRepository = user.NewFakeUserRepository()
	s.SessionRepository = user.NewFakeSessionRepository()
	s.innerCalls = 0
}

func TestAuthDecorators(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) inner() services.Service[input, result] {
	return services.ServiceFunc[input, result](func(ctx context.Context, in input) (result, error) {
		s.innerCalls++
		return result{User: in.User}, nil
	})
}

func (s *testSuite) roleService(role user.Role) services.Service[input, result] {
	return WithAuthentication[input, result](
		s.Logger,
		s.SessionRepository,
		WithRole[input, result](s.Logger, s.UserRepository, role, s.inner()),
	)
}

func (s *testSuite) createUserWithSession(role user.Role) user.User {
	s.T().Helper()
	u, err := s.UserRepository.Create(context.Background(), user.CreateUserInput{
		Name:         "Test",
		Email:        c.Email(fmt.Sprintf("%s@test.test", role)),
		PasswordHash: user.PasswordHash("hash"),
		Role:         role,
		CreatedAt:    NOW,
	})
	s.Require().Nil(err)
	err = s.SessionRepository.Create(context.Background(), user.CreateSessionInput{
		UserID:    u.ID,
		Token:     SESSION_TOKEN,
		CreatedAt: NOW,
	})
	s.Require().Nil(err)
	return u
}

func (s *testSuite) TestMatchingRoleIsAllowed() {
	admin := s.createUserWithSession(user.RoleAdmin)

	ctx := WithSessionToken(context.Background(), SESSION_TOKEN)
	res, err := s.roleService(user.RoleAdmin).Run(ctx, input{})

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(admin.ID, res.User.ID)
	assert.Equal(user.RoleAdmin, res.User.Role)
	assert.Equal(1, s.innerCalls)
}

func (s *testSuite) TestPatientCannotAccessAdmin() {
	s.createUserWithSession(user.RolePatient)

	ctx := WithSessionToken(context.Background(), SESSION_TOKEN)
	_, err := s.roleService(user.RoleAdmin).Run(ctx, input{})

	assert := s.Require()
	assert.ErrorIs(err, user.ErrForbidden)
	assert.Equal(0, s.innerCalls)
}

func (s *testSuite) TestMissingSessionIsUnauthenticated() {
	s.createUserWithSession(user.RoleAdmin)

	_, err := s.roleService(user.RoleAdmin).Run(context.Background(), input{})
	s.Require().ErrorIs(err, user.ErrUnauthenticated)

	ctx := WithSessionToken(context.Background(), user.SessionToken("unknown"))
	_, err = s.roleService(user.RoleAdmin).Run(ctx, input{})
	s.Require().ErrorIs(err, user.ErrUnauthenticated)
	s.Require().Equal(0, s.innerCalls)
}

func (s *testSuite) TestUnknownUserIsForbidden() {
	err := s.SessionRepository.Create(context.Background(), user.CreateSessionInput{
		UserID:    user.ID(404),
		Token:     SESSION_TOKEN,
		CreatedAt: NOW,
	})
	s.Require().Nil(err)

	ctx := WithSessionToken(context.Background(), SESSION_TOKEN)
	_, err = s.roleService(user.RolePatient).Run(ctx, input{})
	s.Require().ErrorIs(err, user.ErrForbidden)
}

func (s *testSuite) TestRoleIsReadOnEveryCall() {
	doctor := s.createUserWithSession(user.RoleDoctor)
	ctx := WithSessionToken(context.Background(), SESSION_TOKEN)
	service := s.roleService(user.RoleDoctor)

	_, err := service.Run(ctx, input{})
	s.Require().Nil(err)

	s.UserRepository.Users[doctor.ID-1].Role = user.RolePatient

	_, err = service.Run(ctx, input{})
	s.Require().ErrorIs(err, user.ErrForbidden)
	s.Require().Equal(1, s.innerCalls)
}

func (s *testSuite) TestWithUserAllowsAnyRole() {
	for _, role := range user.Roles {
		s.SetupTest()
		u := s.createUserWithSession(role)
		service := WithAuthentication[input, result](
			s.Logger,
			s.SessionRepository,
			WithUser[input, result](s.Logger, s.UserRepository, s.inner()),
		)
		ctx := WithSessionToken(context.Background(), SESSION_TOKEN)
		res, err := service.Run(ctx, input{})
		s.Require().Nil(err)
		s.Require().Equal(u.ID, res.User.ID)
	}
}

func (s *testSuite) TestSessionRepositoryErrorIsReturned() {
	s.SessionRepository.ReturnError = true

	ctx := WithSessionToken(context.Background(), SESSION_TOKEN)
	_, err := s.roleService(user.RoleAdmin).Run(ctx, input{})

	assert := s.Require()
	assert.NotNil(err)
	assert.NotErrorIs(err, user.ErrUnauthenticated)
	assert.Equal(1, s.Logger.CountByLevel(logging.ERROR))
}
