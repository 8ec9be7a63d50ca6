package uow

import (
	"context"
	"fmt"
	"medportal/internal/core/domain/user"
)

type FakeUnitOfWorkContext struct {
	UserRepository    *user.FakeUserRepository
	WasRollbackCalled bool
	WasCommitCalled   bool
	ReturnCommitError bool
}

func NewFakeUnitOfWorkContext(userRepository *user.FakeUserRepository) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{UserRepository: userRepository}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	if c.ReturnCommitError {
		return fmt.Errorf("could not commit")
	}
	c.WasCommitCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

// FakeUnitOfWork hands out the same context on every Begin, so writes made
// through it are visible without a real commit.
type FakeUnitOfWork struct {
	Context          *FakeUnitOfWorkContext
	ReturnBeginError bool
}

func NewFakeUnitOfWork(userRepository *user.FakeUserRepository) *FakeUnitOfWork {
	return &FakeUnitOfWork{Context: NewFakeUnitOfWorkContext(userRepository)}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnBeginError {
		return nil, fmt.Errorf("could not begin unit of work")
	}
	return u.Context, nil
}
