package entity

import "errors"

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrBanned             = errors.New("account banned")
	ErrUnverified         = errors.New("email not verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
)

var (
	ErrApplicationPending    = errors.New("club admin application pending")
	ErrApplicationRejected   = errors.New("club admin application rejected")
	ErrApplicationNotPending = errors.New("application is not pending")
)

var ErrInvalidToken = errors.New("invalid or expired verification token")

var (
	ErrAlreadyRegistered     = errors.New("already registered")
	ErrNotRegistered         = errors.New("not registered for this event")
	ErrEventFull             = errors.New("event is full")
	ErrDeadlinePassed        = errors.New("registration deadline has passed")
	ErrClubAdminCannotEnroll = errors.New("club admins cannot register for events")
	ErrCannotBanSysAdmin     = errors.New("cannot ban another sysAdmin")
)

var (
	ErrEmailInvalidLen    = errors.New("email length exceeds 255 characters")
	ErrEmailInvalidFormat = errors.New("incorrect email format")
	ErrNameInvalidLen     = errors.New("name must be between 2 and 50 characters")
	ErrUsernameInvalid    = errors.New("username must be 3-30 characters of letters, digits, dots or underscores")
	ErrPasswordInvalidLen = errors.New("password must be at least 8 characters")
	ErrRoleInvalid        = errors.New("role must be student or ClubAdmin")
)
