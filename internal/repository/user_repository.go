package repository

import (
	"context"
	"errors"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-io/campus-backend/internal/entity"
)

const pgUniqueViolation = "23505"

const userColumns = `
	id, name, username, email, password, is_banned, is_sys_admin,
	club_admin_status, is_verified, verification_token, verification_expires, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (entity.User, error) {
	var u entity.User

	err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsBanned, &u.IsSysAdmin, &u.ClubAdminStatus, &u.IsVerified,
		&u.VerificationToken, &u.VerificationExpires, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, entity.ErrNotFound
		}

		return u, err
	}

	return u, nil
}

// CreateWithApplication inserts the user and, for club admin signups, the
// pending application in one transaction. Partial creation must never be
// observable: both rows commit or neither does.
func (r *UserRepository) CreateWithApplication(
	ctx context.Context,
	user entity.User,
	app *entity.ClubAdminApplication,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `
	INSERT INTO users (
		id, name, username, email, password, is_banned, is_sys_admin,
		club_admin_status, is_verified, verification_token, verification_expires, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = tx.Exec(
		ctx, q,
		user.ID, user.Name, user.Username, user.Email, user.PasswordHash,
		user.IsBanned, user.IsSysAdmin, user.ClubAdminStatus, user.IsVerified,
		user.VerificationToken, user.VerificationExpires, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return entity.ErrAlreadyExists
		}

		return err
	}

	if app != nil {
		q = `
		INSERT INTO club_admin_applications (id, user_id, status, applied_at)
		VALUES ($1, $2, $3, $4)`

		_, err = tx.Exec(ctx, q, app.ID, app.UserID, app.Status, app.AppliedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (entity.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE email = $1`

	return scanUser(r.db.QueryRow(ctx, q, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (entity.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(r.db.QueryRow(ctx, q, id))
}

// ConsumeVerificationToken marks the owning user verified and clears the
// token in one statement, so a concurrent replay of the same token loses the
// race and observes zero affected rows.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, token string) error {
	q := `
	UPDATE users
	SET is_verified = TRUE, verification_token = NULL, verification_expires = NULL
	WHERE verification_token = $1 AND verification_expires > NOW()`

	result, err := r.db.Exec(ctx, q, token)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrInvalidToken
	}

	return nil
}

// Ban refuses sysAdmin targets inside the statement itself: the flag is
// checked against the current row, not an earlier read.
func (r *UserRepository) Ban(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE users SET is_banned = TRUE WHERE id = $1 AND is_sys_admin = FALSE`

	result, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// distinguish a missing user from a protected one
		var isSysAdmin bool

		err = r.db.QueryRow(ctx, `SELECT is_sys_admin FROM users WHERE id = $1`, id).Scan(&isSysAdmin)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entity.ErrNotFound
			}

			return err
		}

		return entity.ErrCannotBanSysAdmin
	}

	return nil
}

func (r *UserRepository) PromoteToSysAdmin(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE users SET is_sys_admin = TRUE WHERE id = $1`

	result, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	q := `SELECT` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// RefreshVerificationToken issues a new token for an unverified account so a
// lost mail can be re-sent.
func (r *UserRepository) RefreshVerificationToken(
	ctx context.Context,
	email, token string,
	expires time.Time,
) error {
	q := `
	UPDATE users
	SET verification_token = $2, verification_expires = $3
	WHERE email = $1 AND is_verified = FALSE`

	result, err := r.db.Exec(ctx, q, email, token, expires)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}
