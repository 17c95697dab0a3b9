package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Session is the server-side record behind the opaque cookie value. It holds
// the user's primary key only: the user row is re-read on every restore so a
// ban or role change applied mid-session is honored on the next request.
type Session struct {
	ID        string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired() bool {
	return !s.ExpiresAt.After(time.Now())
}
