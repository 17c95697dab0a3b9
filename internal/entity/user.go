package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type ClubAdminStatus string

const (
	ClubAdminNeverApplied ClubAdminStatus = "never_applied"
	ClubAdminPending      ClubAdminStatus = "pending"
	ClubAdminAccepted     ClubAdminStatus = "accepted"
	ClubAdminRejected     ClubAdminStatus = "rejected"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleClubAdmin Role = "clubAdmin"
	RoleSysAdmin  Role = "sysAdmin"
	RoleNone      Role = "none"
)

type User struct {
	ID                  uuid.UUID
	Name                string
	Username            string
	Email               string
	PasswordHash        string
	IsBanned            bool
	IsSysAdmin          bool
	ClubAdminStatus     ClubAdminStatus
	IsVerified          bool
	VerificationToken   *string
	VerificationExpires *time.Time
	CreatedAt           time.Time
}

// ResolveRole derives the user's effective role from the persisted flags.
// The role is never stored: it is recomputed on every request so that admin
// actions (ban, approval, promotion) take effect on the very next request.
//
// Precedence: is_sys_admin wins over any club admin state. A user with a
// pending or rejected application has no usable role and must not fall back
// to student.
func ResolveRole(u User) Role {
	switch {
	case u.IsSysAdmin:
		return RoleSysAdmin
	case u.ClubAdminStatus == ClubAdminAccepted:
		return RoleClubAdmin
	case u.ClubAdminStatus == ClubAdminNeverApplied:
		return RoleStudent
	default:
		return RoleNone
	}
}

// SanitizedUser is the client-facing projection of a user record.
// The password hash and verification token never leave the server.
type SanitizedUser struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	IsBanned        bool            `json:"isBanned"`
	IsSysAdmin      bool            `json:"isSysAdmin"`
	ClubAdminStatus ClubAdminStatus `json:"clubAdminStatus"`
	IsVerified      bool            `json:"isVerified"`
	Role            Role            `json:"role"`
}

func (u User) Sanitized() SanitizedUser {
	return SanitizedUser{
		ID:              u.ID,
		Name:            u.Name,
		Username:        u.Username,
		Email:           u.Email,
		IsBanned:        u.IsBanned,
		IsSysAdmin:      u.IsSysAdmin,
		ClubAdminStatus: u.ClubAdminStatus,
		IsVerified:      u.IsVerified,
		Role:            ResolveRole(u),
	}
}
