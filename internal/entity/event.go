package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Event ownership is an explicit organizer_id foreign key; OrganizerName is a
// display value only and never participates in authorization decisions.
type Event struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	OrganizerID          uuid.UUID `json:"organizerId"`
	OrganizerName        string    `json:"organizer"`
	Description          string    `json:"description"`
	EventDate            string    `json:"event_date"`
	EventTime            string    `json:"event_time"`
	Duration             string    `json:"duration"`
	Category             string    `json:"category"`
	Address              string    `json:"address"`
	Room                 string    `json:"room"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	Capacity             int       `json:"capacity"`
	ImageURL             string    `json:"image_url"`
	RegisteredCount      int       `json:"registeredCount"`
	CreatedAt            time.Time `json:"createdAt"`
}

// EventInput carries the caller-editable fields for create and update.
type EventInput struct {
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	EventDate            string    `json:"event_date"`
	EventTime            string    `json:"event_time"`
	Duration             string    `json:"duration"`
	Category             string    `json:"category"`
	Address              string    `json:"address"`
	Room                 string    `json:"room"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	Capacity             int       `json:"capacity"`
	ImageURL             string    `json:"image_url"`
}
