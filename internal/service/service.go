package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/uni-io/campus-backend/internal/entity"
	"github.com/uni-io/campus-backend/pkg/config"
)

type UserRepository interface {
	CreateWithApplication(ctx context.Context, user entity.User, app *entity.ClubAdminApplication) error
	FindByEmail(ctx context.Context, email string) (entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (entity.User, error)
	ConsumeVerificationToken(ctx context.Context, token string) error
	RefreshVerificationToken(ctx context.Context, email, token string, expires time.Time) error
	Ban(ctx context.Context, id uuid.UUID) error
	PromoteToSysAdmin(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.User, error)
}

type SessionRepository interface {
	Save(ctx context.Context, s entity.Session) error
	Find(ctx context.Context, id string) (entity.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) error
}

type ApplicationRepository interface {
	Approve(ctx context.Context, applicationID, reviewerID uuid.UUID) error
	ListPending(ctx context.Context) ([]entity.PendingApplication, error)
}

type EventRepository interface {
	Create(ctx context.Context, e entity.Event) error
	UpdateOwned(ctx context.Context, eventID, organizerID uuid.UUID, in entity.EventInput) error
	DeleteOwned(ctx context.Context, eventID, organizerID uuid.UUID) error
	Delete(ctx context.Context, eventID uuid.UUID) error
	FindByID(ctx context.Context, eventID uuid.UUID) (entity.Event, error)
	List(ctx context.Context) ([]entity.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error)
	ListParticipated(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	Register(ctx context.Context, userID, eventID uuid.UUID) error
	Unregister(ctx context.Context, userID, eventID uuid.UUID) error
}

// Mailer is the email side-channel. Implementations must not block the
// registration transaction: delivery failures are logged, never propagated.
type Mailer interface {
	SendVerificationMail(ctx context.Context, email, token string)
}

type Service struct {
	cfg         config.Config
	userRepo    UserRepository
	sessionRepo SessionRepository
	appRepo     ApplicationRepository
	eventRepo   EventRepository
	mailer      Mailer
}

func NewService(
	cfg config.Config,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	appRepo ApplicationRepository,
	eventRepo EventRepository,
	mailer Mailer,
) *Service {
	return &Service{
		cfg:         cfg,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		appRepo:     appRepo,
		eventRepo:   eventRepo,
		mailer:      mailer,
	}
}

const tokenBytes = 32

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)

	_, err := rand.Read(buf)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// DeleteExpiredSessions backs the periodic cleanup job in main.
func (s *Service) DeleteExpiredSessions(ctx context.Context) error {
	return s.sessionRepo.DeleteExpired(ctx)
}
