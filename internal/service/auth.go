package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/uni-io/campus-backend/internal/entity"
)

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Role     string
}

const RoleRequestClubAdmin = "ClubAdmin"

// Register creates the account unverified. A club admin signup also creates
// the pending application in the same transaction. The verification mail is
// dispatched after commit and a delivery failure does not fail registration:
// the account row is the durable source of truth and the mail can be re-sent.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if err := ValidateRegisterInput(in); err != nil {
		return err
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return err
	}

	token, err := generateToken()
	if err != nil {
		return err
	}

	now := time.Now()
	expires := now.Add(s.cfg.Session.VerificationTTL)

	user := entity.User{
		ID:                  uuid.Must(uuid.NewV4()),
		Name:                in.Name,
		Username:            in.Username,
		Email:               in.Email,
		PasswordHash:        hash,
		ClubAdminStatus:     entity.ClubAdminNeverApplied,
		VerificationToken:   &token,
		VerificationExpires: &expires,
		CreatedAt:           now,
	}

	var app *entity.ClubAdminApplication

	if in.Role == RoleRequestClubAdmin {
		user.ClubAdminStatus = entity.ClubAdminPending
		app = &entity.ClubAdminApplication{
			ID:        uuid.Must(uuid.NewV4()),
			UserID:    user.ID,
			Status:    entity.ApplicationPending,
			AppliedAt: now,
		}
	}

	err = s.userRepo.CreateWithApplication(ctx, user, app)
	if err != nil {
		return err
	}

	s.mailer.SendVerificationMail(ctx, user.Email, token)

	return nil
}

// HashPassword hashes with a configurable bcrypt cost, never below 10.
func (s *Service) HashPassword(plain string) (string, error) {
	cost := s.cfg.BcryptCost
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword reports a credential mismatch as ErrInvalidCredentials only.
// Any other bcrypt failure is an infrastructure error and propagates as such,
// so a hashing outage is never mistaken for a wrong password.
func (s *Service) CheckPassword(plain, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return entity.ErrInvalidCredentials
		}

		return fmt.Errorf("compare password: %w", err)
	}

	return nil
}

// Login checks credentials and the account gates (ban, verification, role)
// before any session exists. A user whose club admin application is pending
// or rejected has no usable role and is refused outright.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (entity.User, entity.Session, error) {
	var session entity.Session

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return user, session, entity.ErrInvalidCredentials
		}

		return user, session, err
	}

	err = s.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return user, session, err
	}

	err = checkAccountUsable(user)
	if err != nil {
		return user, session, err
	}

	session, err = s.establishSession(ctx, user.ID, rememberMe)
	if err != nil {
		return user, session, err
	}

	return user, session, nil
}

func checkAccountUsable(user entity.User) error {
	if user.IsBanned {
		return entity.ErrBanned
	}

	if !user.IsVerified {
		return entity.ErrUnverified
	}

	switch entity.ResolveRole(user) {
	case entity.RoleNone:
		if user.ClubAdminStatus == entity.ClubAdminRejected {
			return entity.ErrApplicationRejected
		}

		return entity.ErrApplicationPending
	default:
		return nil
	}
}

func (s *Service) establishSession(ctx context.Context, userID uuid.UUID, rememberMe bool) (entity.Session, error) {
	var session entity.Session

	token, err := generateToken()
	if err != nil {
		return session, err
	}

	ttl := s.cfg.Session.TTL
	if rememberMe {
		ttl = s.cfg.Session.RememberMeTTL
	}

	now := time.Now()
	session = entity.Session{
		ID:        token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	err = s.sessionRepo.Save(ctx, session)
	if err != nil {
		return session, err
	}

	return session, nil
}

// Restore resolves a session cookie back to the current user record. The user
// row is re-read on every call so a ban, approval or promotion applied
// mid-session is enforced on the next request. The account gates are
// re-applied here for the same reason.
func (s *Service) Restore(ctx context.Context, sessionID string) (entity.User, error) {
	var user entity.User

	session, err := s.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return user, entity.ErrUnauthenticated
		}

		return user, err
	}

	user, err = s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return user, entity.ErrUnauthenticated
		}

		return user, err
	}

	err = checkAccountUsable(user)
	if err != nil {
		return user, err
	}

	return user, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	return s.userRepo.ConsumeVerificationToken(ctx, token)
}

// ResendVerification issues a fresh token for an unverified account. The
// response is identical whether or not the address exists, so the endpoint
// cannot be used to probe for accounts; only the mail dispatch differs.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	token, err := generateToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(s.cfg.Session.VerificationTTL)

	err = s.userRepo.RefreshVerificationToken(ctx, email, token, expires)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			slog.InfoContext(ctx, "resend requested for unknown or verified email")
			return nil
		}

		return err
	}

	s.mailer.SendVerificationMail(ctx, email, token)

	return nil
}
