package user

import (
	"context"
	c "medportal/internal/core/domain/common"
	"medportal/internal/core/domain/user"
	"medportal/internal/db/dbtest"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = c.Email("test@test.test")
	PASSWORD_HASH = user.PasswordHash("test-password-hash")
	TOKEN         = user.PasswordResetToken("test-reset-token")
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxUserRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = dbtest.CreateTestPool(suite.T())
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownTest() {
	dbtest.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) createUser(email c.Email, role user.Role) user.User {
	suite.T().Helper()
	u, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Name:         "Test",
		Email:        email,
		PasswordHash: PASSWORD_HASH,
		Role:         role,
		CreatedAt:    NOW,
	})
	suite.Require().Nil(err)
	return u
}

func (suite *testSuite) TestCreateSuccess() {
	u := suite.createUser(EMAIL, user.RoleDoctor)

	assert := suite.Require()
	assert.NotEqual(user.ID(0), u.ID)
	assert.Equal("Test", u.Name)
	assert.Equal(EMAIL, u.Email)
	assert.Equal(PASSWORD_HASH, u.PasswordHash)
	assert.Equal(user.RoleDoctor, u.Role)
	assert.True(NOW.Equal(u.CreatedAt))
	assert.False(u.PasswordResetToken.IsPresent)
	assert.False(u.PasswordResetTokenExpiresAt.IsPresent)

	stored, err := suite.repo.GetByID(context.Background(), u.ID)
	assert.Nil(err)
	assert.Equal(u, stored)
}

func (suite *testSuite) TestCreateDuplicateEmail() {
	suite.createUser(EMAIL, user.RolePatient)

	_, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Name:         "Other",
		Email:        EMAIL,
		PasswordHash: PASSWORD_HASH,
		Role:         user.RoleAdmin,
		CreatedAt:    NOW,
	})

	suite.Require().ErrorIs(err, user.ErrEmailAlreadyExists)
}

func (suite *testSuite) TestEmailIsCaseSensitive() {
	suite.createUser(EMAIL, user.RolePatient)
	suite.createUser(c.Email("TEST@test.test"), user.RolePatient)

	_, err := suite.repo.GetByEmail(context.Background(), c.Email("Test@test.test"))
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestInvalidRoleIsRejectedByDB() {
	_, err := suite.repo.Create(context.Background(), user.CreateUserInput{
		Email:        EMAIL,
		PasswordHash: PASSWORD_HASH,
		Role:         user.Role("root"),
		CreatedAt:    NOW,
	})
	suite.Require().NotNil(err)
}

func (suite *testSuite) TestGetDoesNotExist() {
	ctx := context.Background()
	_, err := suite.repo.GetByID(ctx, user.ID(1))
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = suite.repo.GetByEmail(ctx, EMAIL)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = suite.repo.GetByEmailForUpdate(ctx, EMAIL)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestPasswordResetToken() {
	ctx := context.Background()
	u := suite.createUser(EMAIL, user.RolePatient)
	expiresAt := NOW.Add(time.Hour)

	err := suite.repo.SetPasswordResetToken(ctx, u.ID, TOKEN, expiresAt)
	assert := suite.Require()
	assert.Nil(err)

	found, err := suite.repo.GetByValidPasswordResetToken(ctx, TOKEN, NOW)
	assert.Nil(err)
	assert.Equal(u.ID, found.ID)
	assert.Equal(c.NewOptional(TOKEN, true), found.PasswordResetToken)
	assert.True(expiresAt.Equal(found.PasswordResetTokenExpiresAt.Value))

	_, err = suite.repo.GetByValidPasswordResetToken(ctx, TOKEN, expiresAt)
	assert.ErrorIs(err, user.ErrInvalidPasswordResetToken)
	_, err = suite.repo.GetByValidPasswordResetToken(ctx, user.PasswordResetToken("other"), NOW)
	assert.ErrorIs(err, user.ErrInvalidPasswordResetToken)
}

func (suite *testSuite) TestSetPasswordResetTokenOverwrites() {
	ctx := context.Background()
	u := suite.createUser(EMAIL, user.RolePatient)
	suite.Require().Nil(suite.repo.SetPasswordResetToken(ctx, u.ID, TOKEN, NOW.Add(time.Hour)))
	suite.Require().Nil(suite.repo.SetPasswordResetToken(ctx, u.ID, user.PasswordResetToken("second"), NOW.Add(time.Hour)))

	_, err := suite.repo.GetByValidPasswordResetToken(ctx, TOKEN, NOW)
	suite.Require().ErrorIs(err, user.ErrInvalidPasswordResetToken)
	found, err := suite.repo.GetByValidPasswordResetToken(ctx, user.PasswordResetToken("second"), NOW)
	suite.Require().Nil(err)
	suite.Require().Equal(u.ID, found.ID)
}

func (suite *testSuite) TestSetPasswordResetTokenDuplicate() {
	ctx := context.Background()
	first := suite.createUser(EMAIL, user.RolePatient)
	second := suite.createUser(c.Email("second@test.test"), user.RolePatient)
	suite.Require().Nil(suite.repo.SetPasswordResetToken(ctx, first.ID, TOKEN, NOW.Add(time.Hour)))

	err := suite.repo.SetPasswordResetToken(ctx, second.ID, TOKEN, NOW.Add(time.Hour))
	suite.Require().ErrorIs(err, user.ErrDuplicatePasswordResetToken)
}

func (suite *testSuite) TestSetPasswordResetTokenUnknownUser() {
	err := suite.repo.SetPasswordResetToken(context.Background(), user.ID(100), TOKEN, NOW)
	suite.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestUpdatePasswordClearsToken() {
	ctx := context.Background()
	u := suite.createUser(EMAIL, user.RolePatient)
	suite.Require().Nil(suite.repo.SetPasswordResetToken(ctx, u.ID, TOKEN, NOW.Add(time.Hour)))

	err := suite.repo.UpdatePassword(ctx, u.ID, user.PasswordHash("new-hash"))

	assert := suite.Require()
	assert.Nil(err)
	stored, err := suite.repo.GetByID(ctx, u.ID)
	assert.Nil(err)
	assert.Equal(user.PasswordHash("new-hash"), stored.PasswordHash)
	assert.False(stored.PasswordResetToken.IsPresent)
	assert.False(stored.PasswordResetTokenExpiresAt.IsPresent)
	assert.Equal(user.RolePatient, stored.Role)

	err = suite.repo.UpdatePassword(ctx, user.ID(100), user.PasswordHash("new-hash"))
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (suite *testSuite) TestResetPasswordByToken() {
	ctx := context.Background()
	u := suite.createUser(EMAIL, user.RolePatient)
	suite.Require().Nil(suite.repo.SetPasswordResetToken(ctx, u.ID, TOKEN, NOW.Add(time.Hour)))

	updated, err := suite.repo.ResetPasswordByToken(ctx, TOKEN, NOW, user.PasswordHash("new-hash"))

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(u.ID, updated.ID)
	assert.Equal(user.PasswordHash("new-hash"), updated.PasswordHash)
	assert.False(updated.PasswordResetToken.IsPresent)

	_, err = suite.repo.ResetPasswordByToken(ctx, TOKEN, NOW, user.PasswordHash("third-hash"))
	assert.ErrorIs(err, user.ErrInvalidPasswordResetToken)
}

func (suite *testSuite) TestResetPasswordByExpiredToken() {
	ctx := context.Background()
	u := suite.createUser(EMAIL, user.RolePatient)
	suite.Require().Nil(suite.repo.SetPasswordResetToken(ctx, u.ID, TOKEN, NOW.Add(time.Hour)))

	_, err := suite.repo.ResetPasswordByToken(ctx, TOKEN, NOW.Add(time.Hour), user.PasswordHash("new-hash"))

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrInvalidPasswordResetToken)
	stored, err := suite.repo.GetByID(ctx, u.ID)
	assert.Nil(err)
	assert.Equal(PASSWORD_HASH, stored.PasswordHash)
	assert.True(stored.PasswordResetToken.IsPresent)
}

func (suite *testSuite) TestConcurrentResetPasswordByToken() {
	ctx := context.Background()
	u := suite.createUser(EMAIL, user.RolePatient)
	suite.Require().Nil(suite.repo.SetPasswordResetToken(ctx, u.ID, TOKEN, NOW.Add(time.Hour)))

	const attempts = 5
	errs := make([]error, attempts)
	wg := sync.WaitGroup{}
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.repo.ResetPasswordByToken(ctx, TOKEN, NOW, user.PasswordHash("new-hash"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.Require().ErrorIs(err, user.ErrInvalidPasswordResetToken)
	}
	suite.Require().Equal(1, succeeded)
}
