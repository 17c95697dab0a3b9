package repository

import (
	"context"
	"errors"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-io/campus-backend/internal/entity"
)

type ApplicationRepository struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Approve flips a pending application to accepted and promotes the applicant
// in one transaction. The status predicate lives in the UPDATE, so approving
// an already-reviewed application affects zero rows instead of silently
// re-applying.
func (r *ApplicationRepository) Approve(
	ctx context.Context,
	applicationID, reviewerID uuid.UUID,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID uuid.UUID

	q := `
	UPDATE club_admin_applications
	SET status = $3, reviewed_by = $2, reviewed_at = $4
	WHERE id = $1 AND status = $5
	RETURNING user_id`

	err = tx.QueryRow(
		ctx, q,
		applicationID, reviewerID, entity.ApplicationAccepted, time.Now(), entity.ApplicationPending,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.notPendingOrMissing(ctx, applicationID)
		}

		return err
	}

	q = `UPDATE users SET club_admin_status = $2 WHERE id = $1`

	_, err = tx.Exec(ctx, q, userID, entity.ClubAdminAccepted)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ApplicationRepository) notPendingOrMissing(ctx context.Context, id uuid.UUID) error {
	var status entity.ApplicationStatus

	err := r.db.QueryRow(ctx, `SELECT status FROM club_admin_applications WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.ErrNotFound
		}

		return err
	}

	return entity.ErrApplicationNotPending
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (entity.ClubAdminApplication, error) {
	var app entity.ClubAdminApplication

	q := `
	SELECT id, user_id, status, applied_at, reviewed_by, reviewed_at
	FROM club_admin_applications
	WHERE id = $1`

	err := r.db.QueryRow(ctx, q, id).Scan(
		&app.ID, &app.UserID, &app.Status, &app.AppliedAt, &app.ReviewedBy, &app.ReviewedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return app, entity.ErrNotFound
		}

		return app, err
	}

	return app, nil
}

func (r *ApplicationRepository) ListPending(ctx context.Context) ([]entity.PendingApplication, error) {
	q := `
	SELECT a.id, a.user_id, a.status, a.applied_at, a.reviewed_by, a.reviewed_at, u.name, u.email
	FROM club_admin_applications a
	JOIN users u ON u.id = a.user_id
	WHERE a.status = $1
	ORDER BY a.applied_at`

	rows, err := r.db.Query(ctx, q, entity.ApplicationPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []entity.PendingApplication

	for rows.Next() {
		var app entity.PendingApplication

		err := rows.Scan(
			&app.ID, &app.UserID, &app.Status, &app.AppliedAt,
			&app.ReviewedBy, &app.ReviewedAt, &app.ApplicantName, &app.ApplicantEmail,
		)
		if err != nil {
			return nil, err
		}

		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}
