package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-io/campus-backend/internal/entity"
)

// SessionRepository persists sessions in Postgres so they survive process
// restarts and are shared by every instance behind the same database.
type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Save(ctx context.Context, s entity.Session) error {
	q := `INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, q, s.ID, s.UserID, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// Find returns the session only while it is live; expiry is enforced in the
// WHERE clause rather than by comparing timestamps after the read.
func (r *SessionRepository) Find(ctx context.Context, id string) (entity.Session, error) {
	var s entity.Session

	q := `
	SELECT id, user_id, expires_at, created_at
	FROM sessions
	WHERE id = $1 AND expires_at > NOW()`

	err := r.db.QueryRow(ctx, q, id).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, entity.ErrNotFound
		}

		return s, err
	}

	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	q := `DELETE FROM sessions WHERE id = $1`

	_, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	q := `DELETE FROM sessions WHERE user_id = $1`

	_, err := r.db.Exec(ctx, q, userID)
	if err != nil {
		return err
	}

	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) error {
	q := `DELETE FROM sessions WHERE expires_at < NOW()`

	_, err := r.db.Exec(ctx, q)
	if err != nil {
		return err
	}

	return nil
}
