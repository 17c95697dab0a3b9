package service

import (
	"context"
	"log/slog"

	"github.com/gofrs/uuid/v5"

	"github.com/uni-io/campus-backend/internal/entity"
)

// BanUser takes effect on the target's very next request because every
// restore re-reads the user row. SysAdmin accounts are never bannable via
// this pathway; the refusal is enforced in the UPDATE predicate.
func (s *Service) BanUser(ctx context.Context, actor entity.User, targetID uuid.UUID) error {
	err := s.userRepo.Ban(ctx, targetID)
	if err != nil {
		return err
	}

	// live sessions go with the ban; the restore gate would refuse them
	// anyway, this just stops the rows from lingering until expiry
	err = s.sessionRepo.DeleteByUserID(ctx, targetID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to drop sessions of banned user", "error", err, "target_id", targetID)
	}

	slog.InfoContext(ctx, "user banned", "target_id", targetID, "actor_id", actor.ID)

	return nil
}

// ApproveClubAdmin records the reviewer and flips the applicant's status in
// one transaction. Re-approving a reviewed application fails, it does not
// silently re-apply.
func (s *Service) ApproveClubAdmin(ctx context.Context, actor entity.User, applicationID uuid.UUID) error {
	err := s.appRepo.Approve(ctx, applicationID, actor.ID)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "club admin application approved", "application_id", applicationID, "reviewer_id", actor.ID)

	return nil
}

func (s *Service) AddSysAdmin(ctx context.Context, actor entity.User, targetID uuid.UUID) error {
	err := s.userRepo.PromoteToSysAdmin(ctx, targetID)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "user promoted to sysadmin", "target_id", targetID, "actor_id", actor.ID)

	return nil
}

func (s *Service) Users(ctx context.Context) ([]entity.SanitizedUser, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	sanitized := make([]entity.SanitizedUser, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}

	return sanitized, nil
}

func (s *Service) PendingApplications(ctx context.Context) ([]entity.PendingApplication, error) {
	return s.appRepo.ListPending(ctx)
}
