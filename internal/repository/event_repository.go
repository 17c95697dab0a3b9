package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uni-io/campus-backend/internal/entity"
)

const eventColumns = `
	id, title, organizer_id, organizer_name, description, event_date, event_time,
	duration, category, address, room, registration_deadline, capacity, image_url, created_at`

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (entity.Event, error) {
	var e entity.Event

	err := row.Scan(
		&e.ID, &e.Title, &e.OrganizerID, &e.OrganizerName, &e.Description,
		&e.EventDate, &e.EventTime, &e.Duration, &e.Category, &e.Address, &e.Room,
		&e.RegistrationDeadline, &e.Capacity, &e.ImageURL, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e, entity.ErrNotFound
		}

		return e, err
	}

	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, e entity.Event) error {
	q := `
	INSERT INTO club_events (
		id, title, organizer_id, organizer_name, description, event_date, event_time,
		duration, category, address, room, registration_deadline, capacity, image_url, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(
		ctx, q,
		e.ID, e.Title, e.OrganizerID, e.OrganizerName, e.Description,
		e.EventDate, e.EventTime, e.Duration, e.Category, e.Address, e.Room,
		e.RegistrationDeadline, e.Capacity, e.ImageURL, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// UpdateOwned mutates the event only when the actor still owns it. Ownership
// and mutation are one statement: there is no window for another admin to
// reassign or delete the row between check and write.
func (r *EventRepository) UpdateOwned(
	ctx context.Context,
	eventID, organizerID uuid.UUID,
	in entity.EventInput,
) error {
	q := `
	UPDATE club_events
	SET title = $3, description = $4, event_date = $5, event_time = $6, duration = $7,
		category = $8, address = $9, room = $10, registration_deadline = $11,
		capacity = $12, image_url = $13
	WHERE id = $1 AND organizer_id = $2`

	result, err := r.db.Exec(
		ctx, q,
		eventID, organizerID,
		in.Title, in.Description, in.EventDate, in.EventTime, in.Duration,
		in.Category, in.Address, in.Room, in.RegistrationDeadline, in.Capacity, in.ImageURL,
	)
	if err != nil {
		return err
	}

	// missing and foreign events are indistinguishable on purpose
	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *EventRepository) DeleteOwned(ctx context.Context, eventID, organizerID uuid.UUID) error {
	q := `DELETE FROM club_events WHERE id = $1 AND organizer_id = $2`

	result, err := r.db.Exec(ctx, q, eventID, organizerID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

// Delete removes any event regardless of owner. SysAdmin pathway.
func (r *EventRepository) Delete(ctx context.Context, eventID uuid.UUID) error {
	q := `DELETE FROM club_events WHERE id = $1`

	result, err := r.db.Exec(ctx, q, eventID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, eventID uuid.UUID) (entity.Event, error) {
	q := `
	SELECT` + eventColumns + `,
		(SELECT COUNT(*) FROM event_registrants WHERE event_id = club_events.id) AS registered_count
	FROM club_events
	WHERE id = $1`

	var e entity.Event

	err := r.db.QueryRow(ctx, q, eventID).Scan(
		&e.ID, &e.Title, &e.OrganizerID, &e.OrganizerName, &e.Description,
		&e.EventDate, &e.EventTime, &e.Duration, &e.Category, &e.Address, &e.Room,
		&e.RegistrationDeadline, &e.Capacity, &e.ImageURL, &e.CreatedAt, &e.RegisteredCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e, entity.ErrNotFound
		}

		return e, err
	}

	return e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]entity.Event, error) {
	q := `SELECT` + eventColumns + ` FROM club_events ORDER BY event_date, event_time`

	return r.queryEvents(ctx, q)
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	q := `
	SELECT` + eventColumns + `,
		(SELECT COUNT(*) FROM event_registrants WHERE event_id = club_events.id) AS registered_count
	FROM club_events
	WHERE organizer_id = $1
	ORDER BY event_date, event_time`

	rows, err := r.db.Query(ctx, q, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []entity.Event

	for rows.Next() {
		var e entity.Event

		err := rows.Scan(
			&e.ID, &e.Title, &e.OrganizerID, &e.OrganizerName, &e.Description,
			&e.EventDate, &e.EventTime, &e.Duration, &e.Category, &e.Address, &e.Room,
			&e.RegistrationDeadline, &e.Capacity, &e.ImageURL, &e.CreatedAt, &e.RegisteredCount,
		)
		if err != nil {
			return nil, err
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) ListParticipated(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	q := `
	SELECT e.id, e.title, e.organizer_id, e.organizer_name, e.description, e.event_date,
		e.event_time, e.duration, e.category, e.address, e.room, e.registration_deadline,
		e.capacity, e.image_url, e.created_at
	FROM club_events e
	JOIN event_registrants er ON e.id = er.event_id
	WHERE er.user_id = $1
	ORDER BY e.event_date, e.event_time`

	return r.queryEvents(ctx, q, userID)
}

func (r *EventRepository) queryEvents(ctx context.Context, q string, args ...any) ([]entity.Event, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []entity.Event

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Register inserts the registration with the capacity predicate inside the
// statement. The composite primary key on (user_id, event_id) arbitrates
// duplicate attempts, and the count-vs-capacity subquery arbitrates the race
// for the last open slot; application code never does read-then-write here.
func (r *EventRepository) Register(ctx context.Context, userID, eventID uuid.UUID) error {
	q := `
	INSERT INTO event_registrants (user_id, event_id)
	SELECT $1, $2
	WHERE (SELECT COUNT(*) FROM event_registrants WHERE event_id = $2)
		< (SELECT capacity FROM club_events WHERE id = $2)`

	result, err := r.db.Exec(ctx, q, userID, eventID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return entity.ErrAlreadyRegistered
		}

		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrEventFull
	}

	return nil
}

func (r *EventRepository) Unregister(ctx context.Context, userID, eventID uuid.UUID) error {
	q := `DELETE FROM event_registrants WHERE user_id = $1 AND event_id = $2`

	result, err := r.db.Exec(ctx, q, userID, eventID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotRegistered
	}

	return nil
}
