package uow

import (
	"context"
	c "medportal/internal/core/domain/common"
	"medportal/internal/core/domain/user"
	"medportal/internal/db/dbtest"
	dbuser "medportal/internal/db/user"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const EMAIL = c.Email("test@test.test")

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	uow  *PgxUnitOfWork
}

func (suite *testSuite) SetupSuite() {
	suite.pool = dbtest.CreateTestPool(suite.T())
	suite.uow = NewPgxUnitOfWork(suite.pool)
}

func (suite *testSuite) TearDownTest() {
	dbtest.TruncateTables(suite.pool)
}

func TestPgxUnitOfWork(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createUser() user.User {
	s.T().Helper()
	u, err := dbuser.NewPgxRepository(s.pool).Create(context.Background(), user.CreateUserInput{
		Name:         "Test",
		Email:        EMAIL,
		PasswordHash: user.PasswordHash("hash"),
		Role:         user.RolePatient,
		CreatedAt:    NOW,
	})
	s.Require().Nil(err)
	return u
}

func (s *testSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()
	u := s.createUser()

	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	err = uow.Users().SetPasswordResetToken(ctx, u.ID, user.PasswordResetToken("token"), NOW.Add(time.Hour))
	s.Require().Nil(err)
	s.Require().Nil(uow.Rollback(ctx))

	stored, err := dbuser.NewPgxRepository(s.pool).GetByID(ctx, u.ID)
	s.Require().Nil(err)
	s.Require().False(stored.PasswordResetToken.IsPresent)
}

func (s *testSuite) TestCommitPersistsChanges() {
	ctx := context.Background()
	u := s.createUser()

	uow, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer uow.Rollback(ctx)
	err = uow.Users().SetPasswordResetToken(ctx, u.ID, user.PasswordResetToken("token"), NOW.Add(time.Hour))
	s.Require().Nil(err)
	s.Require().Nil(uow.Commit(ctx))

	stored, err := dbuser.NewPgxRepository(s.pool).GetByID(ctx, u.ID)
	s.Require().Nil(err)
	s.Require().Equal(c.NewOptional(user.PasswordResetToken("token"), true), stored.PasswordResetToken)
}

func (s *testSuite) TestLockedUserIsReadAfterCommit() {
	ctx := context.Background()
	u := s.createUser()

	first, err := s.uow.Begin(ctx)
	s.Require().Nil(err)
	defer first.Rollback(ctx)
	_, err = first.Users().GetByEmailForUpdate(ctx, EMAIL)
	s.Require().Nil(err)
	err = first.Users().SetPasswordResetToken(ctx, u.ID, user.PasswordResetToken("first"), NOW.Add(time.Hour))
	s.Require().Nil(err)

	seen := make(chan user.User, 1)
	go func() {
		second, err := s.uow.Begin(ctx)
		if err != nil {
			close(seen)
			return
		}
		defer second.Rollback(ctx)
		locked, err := second.Users().GetByEmailForUpdate(ctx, EMAIL)
		if err != nil {
			close(seen)
			return
		}
		seen <- locked
	}()

	select {
	case <-seen:
		s.FailNow("second unit of work must wait for the lock")
	case <-time.After(200 * time.Millisecond):
	}
	s.Require().Nil(first.Commit(ctx))

	locked, ok := <-seen
	s.Require().True(ok)
	s.Require().Equal(c.NewOptional(user.PasswordResetToken("first"), true), locked.PasswordResetToken)
}
