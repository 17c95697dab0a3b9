package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/uni-io/campus-backend/internal/entity"
)

const (
	EmailMaxLen    = 255
	NameMinLen     = 2
	NameMaxLen     = 50
	UsernameMinLen = 3
	UsernameMaxLen = 30
	PasswordMinLen = 8
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
)

func ValidateEmail(email string) error {
	if len(email) > EmailMaxLen {
		return entity.ErrEmailInvalidLen
	}

	if !emailRegexp.MatchString(email) {
		return entity.ErrEmailInvalidFormat
	}

	if strings.Contains(email, "..") {
		return entity.ErrEmailInvalidFormat
	}

	return nil
}

func ValidateName(name string) error {
	nameLen := utf8.RuneCountInString(strings.TrimSpace(name))
	if nameLen < NameMinLen || nameLen > NameMaxLen {
		return entity.ErrNameInvalidLen
	}

	return nil
}

func ValidateUsername(username string) error {
	usernameLen := utf8.RuneCountInString(username)
	if usernameLen < UsernameMinLen || usernameLen > UsernameMaxLen {
		return entity.ErrUsernameInvalid
	}

	if !usernameRegexp.MatchString(username) {
		return entity.ErrUsernameInvalid
	}

	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLen {
		return entity.ErrPasswordInvalidLen
	}

	return nil
}

func ValidateRegisterInput(in RegisterInput) error {
	if err := ValidateName(in.Name); err != nil {
		return err
	}

	if err := ValidateUsername(in.Username); err != nil {
		return err
	}

	if err := ValidateEmail(in.Email); err != nil {
		return err
	}

	if err := ValidatePassword(in.Password); err != nil {
		return err
	}

	if in.Role != "student" && in.Role != RoleRequestClubAdmin {
		return entity.ErrRoleInvalid
	}

	return nil
}
