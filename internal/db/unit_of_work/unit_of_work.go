package uow

import (
	"context"
	e "medportal/internal/core/domain/errors"
	uow "medportal/internal/core/domain/unit_of_work"
	"medportal/internal/core/domain/user"
	dbuser "medportal/internal/db/user"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgxUnitOfWorkContext struct {
	tx pgx.Tx
}

func newPgxUnitOfWorkContext(tx pgx.Tx) *pgxUnitOfWorkContext {
	return &pgxUnitOfWorkContext{
		tx: tx,
	}
}

func (c *pgxUnitOfWorkContext) Commit(ctx context.Context) error {
	return c.tx.Commit(ctx)
}

// Rollback after a successful Commit is a no-op.
func (c *pgxUnitOfWorkContext) Rollback(ctx context.Context) error {
	return c.tx.Rollback(ctx)
}

func (c *pgxUnitOfWorkContext) Users() user.UserRepository {
	return dbuser.NewPgxRepository(c.tx)
}

type PgxUnitOfWork struct {
	db *pgxpool.Pool
}

func NewPgxUnitOfWork(db *pgxpool.Pool) *PgxUnitOfWork {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUnitOfWork{db: db}
}

func (u *PgxUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return newPgxUnitOfWorkContext(tx), nil
}
