package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
)

// ClubAdminApplication tracks a user's request for elevated privilege.
// At most one pending application per user may exist; enforced by a partial
// unique index, not application code.
type ClubAdminApplication struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"userId"`
	Status     ApplicationStatus `json:"status"`
	AppliedAt  time.Time         `json:"appliedAt"`
	ReviewedBy *uuid.UUID        `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time        `json:"reviewedAt,omitempty"`
}

// PendingApplication is the sysAdmin review listing: an application joined
// with its applicant.
type PendingApplication struct {
	ClubAdminApplication
	ApplicantName  string `json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail"`
}
