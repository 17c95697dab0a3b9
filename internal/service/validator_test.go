package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uni-io/campus-backend/internal/service"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		errFn require.ErrorAssertionFunc
	}{
		{"Valid email", "user@example.com", require.NoError},
		{"Valid email with plus tag", "user+tag@example.com", require.NoError},
		{"Valid email with subdomain", "user@mail.example.com", require.NoError},
		{"Invalid: no domain zone", "abc@mail", require.Error},
		{"Invalid: double @ symbol", "user@@example.com", require.Error},
		{"Invalid: domain starts with dot", "user@.com", require.Error},
		{"Invalid: two consecutive dots", "user..name@example.com", require.Error},
		{"Invalid: exceeds length limit", strings.Repeat("x", service.EmailMaxLen) + "@example.com", require.Error},
		{"Invalid: empty email", "", require.Error},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			err := service.ValidateEmail(test.email)
			test.errFn(t, err)
		})
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		errFn require.ErrorAssertionFunc
	}{
		{"Valid name", "Alice", require.NoError},
		{"Valid name with space", "Alice Smith", require.NoError},
		{"Valid two-letter name", "Al", require.NoError},
		{"Invalid: too short", "A", require.Error},
		{"Invalid: only whitespace", "    ", require.Error},
		{"Invalid: too long", strings.Repeat("a", service.NameMaxLen+1), require.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := service.ValidateName(tt.input)
			tt.errFn(t, err)
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		errFn require.ErrorAssertionFunc
	}{
		{"Valid username", "alice_s", require.NoError},
		{"Valid with dots and digits", "alice.s99", require.NoError},
		{"Invalid: too short", "al", require.Error},
		{"Invalid: spaces", "alice smith", require.Error},
		{"Invalid: special characters", "alice!", require.Error},
		{"Invalid: too long", strings.Repeat("a", service.UsernameMaxLen+1), require.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := service.ValidateUsername(tt.input)
			tt.errFn(t, err)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		errFn require.ErrorAssertionFunc
	}{
		{"Valid password", "correct-horse", require.NoError},
		{"Valid minimal length", strings.Repeat("x", service.PasswordMinLen), require.NoError},
		{"Invalid: too short", "short", require.Error},
		{"Invalid: empty", "", require.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := service.ValidatePassword(tt.input)
			tt.errFn(t, err)
		})
	}
}

func TestValidateRegisterInput_Role(t *testing.T) {
	t.Parallel()

	in := service.RegisterInput{
		Name:     "Alice Smith",
		Username: "alice_s",
		Email:    "alice@example.com",
		Password: "correct-horse",
	}

	in.Role = "student"
	require.NoError(t, service.ValidateRegisterInput(in))

	in.Role = service.RoleRequestClubAdmin
	require.NoError(t, service.ValidateRegisterInput(in))

	in.Role = "sysAdmin"
	require.Error(t, service.ValidateRegisterInput(in))

	in.Role = ""
	require.Error(t, service.ValidateRegisterInput(in))
}
