package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/uni-io/campus-backend/internal/entity"
)

// CreateEvent records the actor as the owning organizer by id; the display
// name is a denormalized convenience and never an authorization input.
func (s *Service) CreateEvent(ctx context.Context, actor entity.User, in entity.EventInput) (uuid.UUID, error) {
	e := entity.Event{
		ID:                   uuid.Must(uuid.NewV4()),
		Title:                in.Title,
		OrganizerID:          actor.ID,
		OrganizerName:        actor.Name,
		Description:          in.Description,
		EventDate:            in.EventDate,
		EventTime:            in.EventTime,
		Duration:             in.Duration,
		Category:             in.Category,
		Address:              in.Address,
		Room:                 in.Room,
		RegistrationDeadline: in.RegistrationDeadline,
		Capacity:             in.Capacity,
		ImageURL:             in.ImageURL,
		CreatedAt:            time.Now(),
	}

	err := s.eventRepo.Create(ctx, e)
	if err != nil {
		return uuid.Nil, err
	}

	return e.ID, nil
}

// UpdateEvent is ownership-gated: the predicate runs inside the UPDATE, so a
// club admin editing a foreign event gets not-found without learning whether
// the event exists.
func (s *Service) UpdateEvent(ctx context.Context, actor entity.User, eventID uuid.UUID, in entity.EventInput) error {
	return s.eventRepo.UpdateOwned(ctx, eventID, actor.ID, in)
}

// DeleteEvent lets an owner delete their own event; a sysAdmin may delete any.
func (s *Service) DeleteEvent(ctx context.Context, actor entity.User, eventID uuid.UUID) error {
	if entity.ResolveRole(actor) == entity.RoleSysAdmin {
		slog.InfoContext(ctx, "sysadmin deleting event", "event_id", eventID, "actor_id", actor.ID)
		return s.eventRepo.Delete(ctx, eventID)
	}

	return s.eventRepo.DeleteOwned(ctx, eventID, actor.ID)
}

func (s *Service) Event(ctx context.Context, eventID uuid.UUID) (entity.Event, error) {
	return s.eventRepo.FindByID(ctx, eventID)
}

func (s *Service) Events(ctx context.Context) ([]entity.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *Service) MyEvents(ctx context.Context, actor entity.User) ([]entity.Event, error) {
	return s.eventRepo.ListByOrganizer(ctx, actor.ID)
}

func (s *Service) ParticipatedEvents(ctx context.Context, actor entity.User) ([]entity.Event, error) {
	return s.eventRepo.ListParticipated(ctx, actor.ID)
}

// RegisterForEvent enrolls a student. Club admins cannot enroll. The deadline
// is checked against the current event row; capacity and duplicates are
// arbitrated by the insert statement itself, not by this read.
func (s *Service) RegisterForEvent(ctx context.Context, actor entity.User, eventID uuid.UUID) error {
	if actor.ClubAdminStatus == entity.ClubAdminAccepted {
		return entity.ErrClubAdminCannotEnroll
	}

	e, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}

	if !e.RegistrationDeadline.IsZero() && time.Now().After(e.RegistrationDeadline) {
		return entity.ErrDeadlinePassed
	}

	return s.eventRepo.Register(ctx, actor.ID, eventID)
}

func (s *Service) UnregisterFromEvent(ctx context.Context, actor entity.User, eventID uuid.UUID) error {
	return s.eventRepo.Unregister(ctx, actor.ID, eventID)
}
