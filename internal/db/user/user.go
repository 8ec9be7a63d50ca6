package user

import (
	"context"
	"database/sql"
	"errors"
	c "medportal/internal/core/domain/common"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/user"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
)

const (
	EMAIL_CONSTRAINT_NAME                = "user_email_idx"
	PASSWORD_RESET_TOKEN_CONSTRAINT_NAME = "user_password_reset_token_idx"
)

const userColumns = `id, name, email, password_hash, role, created_at,
	password_reset_token, password_reset_token_expires_at`

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxUserRepository struct {
	db DBTX
}

func NewPgxRepository(db DBTX) *PgxUserRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		input.Name,
		string(input.Email),
		string(input.PasswordHash),
		string(input.Role),
		input.CreatedAt,
	)
	u, err = scanUser(row)
	if isUniqueViolation(err, EMAIL_CONSTRAINT_NAME) {
		return u, user.ErrEmailAlreadyExists
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, int64(id))
	return r.getOne(row, user.ErrUserDoesNotExist)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, string(email))
	return r.getOne(row, user.ErrUserDoesNotExist)
}

func (r *PgxUserRepository) GetByEmailForUpdate(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE email = $1 FOR UPDATE`,
		string(email),
	)
	return r.getOne(row, user.ErrUserDoesNotExist)
}

func (r *PgxUserRepository) GetByValidPasswordResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
) (u user.User, err error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+userColumns+` FROM "user"
		WHERE password_reset_token = $1 AND password_reset_token_expires_at > $2
		LIMIT 2`,
		string(token),
		now,
	)
	if err != nil {
		return u, err
	}
	defer rows.Close()

	found := 0
	for rows.Next() {
		u, err = scanUser(rows)
		if err != nil {
			return u, err
		}
		found++
	}
	if err := rows.Err(); err != nil {
		return u, err
	}
	switch found {
	case 0:
		return user.User{}, user.ErrInvalidPasswordResetToken
	case 1:
		return u, u.Validate()
	default:
		return user.User{}, user.ErrDuplicatePasswordResetToken
	}
}

func (r *PgxUserRepository) SetPasswordResetToken(
	ctx context.Context,
	id user.ID,
	token user.PasswordResetToken,
	expiresAt time.Time,
) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user"
		SET password_reset_token = $2, password_reset_token_expires_at = $3
		WHERE id = $1`,
		int64(id),
		string(token),
		expiresAt,
	)
	if isUniqueViolation(err, PASSWORD_RESET_TOKEN_CONSTRAINT_NAME) {
		return user.ErrDuplicatePasswordResetToken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user"
		SET password_hash = $2, password_reset_token = NULL, password_reset_token_expires_at = NULL
		WHERE id = $1`,
		int64(id),
		string(password),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) ResetPasswordByToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
	password user.PasswordHash,
) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user"
		SET password_hash = $3, password_reset_token = NULL, password_reset_token_expires_at = NULL
		WHERE password_reset_token = $1 AND password_reset_token_expires_at > $2
		RETURNING `+userColumns,
		string(token),
		now,
		string(password),
	)
	return r.getOne(row, user.ErrInvalidPasswordResetToken)
}

func (r *PgxUserRepository) getOne(row pgx.Row, errNotFound error) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, errNotFound
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id        int64
		name      string
		email     string
		hash      string
		role      string
		createdAt time.Time
		token     sql.NullString
		expiresAt sql.NullTime
	)
	err = row.Scan(&id, &name, &email, &hash, &role, &createdAt, &token, &expiresAt)
	if err != nil {
		return u, err
	}
	return user.User{
		ID:                          user.ID(id),
		Name:                        name,
		Email:                       c.Email(email),
		PasswordHash:                user.PasswordHash(hash),
		Role:                        user.Role(role),
		CreatedAt:                   createdAt.UTC(),
		PasswordResetToken:          c.NewOptional(user.PasswordResetToken(token.String), token.Valid),
		PasswordResetTokenExpiresAt: c.NewOptional(expiresAt.Time.UTC(), expiresAt.Valid),
	}, nil
}

func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraintName
}
