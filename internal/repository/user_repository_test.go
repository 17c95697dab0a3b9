package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/suite"

	"github.com/uni-io/campus-backend/internal/entity"
	"github.com/uni-io/campus-backend/internal/repository"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	repo *repository.UserRepository
	apps *repository.ApplicationRepository
}

func (ts *UserRepositoryTestSuite) SetupTest() {
	db := repository.SetupTestDatabase(ts.T())
	ts.repo = repository.NewUserRepository(db)
	ts.apps = repository.NewApplicationRepository(db)
}

func TestUserRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(UserRepositoryTestSuite))
}

func newTestUser(email string) entity.User {
	return entity.User{
		ID:              uuid.Must(uuid.NewV4()),
		Name:            "Test User",
		Username:        "testuser_" + uuid.Must(uuid.NewV4()).String()[:8],
		Email:           email,
		PasswordHash:    "$2a$10$abcdefghijklmnopqrstuv",
		ClubAdminStatus: entity.ClubAdminNeverApplied,
		CreatedAt:       time.Now(),
	}
}

func (ts *UserRepositoryTestSuite) TestCreateAndFind() {
	ctx := context.Background()
	u := newTestUser("find@example.com")

	err := ts.repo.CreateWithApplication(ctx, u, nil)
	ts.Require().NoError(err)

	found, err := ts.repo.FindByEmail(ctx, u.Email)
	ts.Require().NoError(err)
	ts.Require().Equal(u.ID, found.ID)
	ts.Require().Equal(entity.ClubAdminNeverApplied, found.ClubAdminStatus)

	byID, err := ts.repo.FindByID(ctx, u.ID)
	ts.Require().NoError(err)
	ts.Require().Equal(u.Email, byID.Email)
}

func (ts *UserRepositoryTestSuite) TestDuplicateEmail() {
	ctx := context.Background()

	err := ts.repo.CreateWithApplication(ctx, newTestUser("dup@example.com"), nil)
	ts.Require().NoError(err)

	err = ts.repo.CreateWithApplication(ctx, newTestUser("dup@example.com"), nil)
	ts.Require().ErrorIs(err, entity.ErrAlreadyExists)
}

func (ts *UserRepositoryTestSuite) TestCreateWithApplication() {
	ctx := context.Background()

	u := newTestUser("applicant@example.com")
	u.ClubAdminStatus = entity.ClubAdminPending

	app := &entity.ClubAdminApplication{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    u.ID,
		Status:    entity.ApplicationPending,
		AppliedAt: time.Now(),
	}

	err := ts.repo.CreateWithApplication(ctx, u, app)
	ts.Require().NoError(err)

	stored, err := ts.apps.FindByID(ctx, app.ID)
	ts.Require().NoError(err)
	ts.Require().Equal(u.ID, stored.UserID)
	ts.Require().Equal(entity.ApplicationPending, stored.Status)
}

func (ts *UserRepositoryTestSuite) TestCreateWithApplicationRollsBack() {
	ctx := context.Background()

	existing := newTestUser("atomic@example.com")
	err := ts.repo.CreateWithApplication(ctx, existing, nil)
	ts.Require().NoError(err)

	// second insert with the same email fails; its application must not survive
	u := newTestUser("atomic@example.com")
	app := &entity.ClubAdminApplication{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    u.ID,
		Status:    entity.ApplicationPending,
		AppliedAt: time.Now(),
	}

	err = ts.repo.CreateWithApplication(ctx, u, app)
	ts.Require().ErrorIs(err, entity.ErrAlreadyExists)

	_, err = ts.apps.FindByID(ctx, app.ID)
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}

func (ts *UserRepositoryTestSuite) TestConsumeVerificationToken() {
	ctx := context.Background()

	token := "token_" + uuid.Must(uuid.NewV4()).String()
	expires := time.Now().Add(24 * time.Hour)

	u := newTestUser("verify@example.com")
	u.VerificationToken = &token
	u.VerificationExpires = &expires

	err := ts.repo.CreateWithApplication(ctx, u, nil)
	ts.Require().NoError(err)

	err = ts.repo.ConsumeVerificationToken(ctx, token)
	ts.Require().NoError(err)

	verified, err := ts.repo.FindByID(ctx, u.ID)
	ts.Require().NoError(err)
	ts.Require().True(verified.IsVerified)
	ts.Require().Nil(verified.VerificationToken)

	// single use: the same token must not verify twice
	err = ts.repo.ConsumeVerificationToken(ctx, token)
	ts.Require().ErrorIs(err, entity.ErrInvalidToken)
}

func (ts *UserRepositoryTestSuite) TestConsumeExpiredToken() {
	ctx := context.Background()

	token := "expired_" + uuid.Must(uuid.NewV4()).String()
	expires := time.Now().Add(-time.Hour)

	u := newTestUser("expired@example.com")
	u.VerificationToken = &token
	u.VerificationExpires = &expires

	err := ts.repo.CreateWithApplication(ctx, u, nil)
	ts.Require().NoError(err)

	err = ts.repo.ConsumeVerificationToken(ctx, token)
	ts.Require().ErrorIs(err, entity.ErrInvalidToken)
}

func (ts *UserRepositoryTestSuite) TestBan() {
	ctx := context.Background()

	u := newTestUser("bannable@example.com")
	err := ts.repo.CreateWithApplication(ctx, u, nil)
	ts.Require().NoError(err)

	err = ts.repo.Ban(ctx, u.ID)
	ts.Require().NoError(err)

	banned, err := ts.repo.FindByID(ctx, u.ID)
	ts.Require().NoError(err)
	ts.Require().True(banned.IsBanned)
}

func (ts *UserRepositoryTestSuite) TestBanSysAdminRefused() {
	ctx := context.Background()

	admin := newTestUser("admin@example.com")
	admin.IsSysAdmin = true

	err := ts.repo.CreateWithApplication(ctx, admin, nil)
	ts.Require().NoError(err)

	err = ts.repo.Ban(ctx, admin.ID)
	ts.Require().ErrorIs(err, entity.ErrCannotBanSysAdmin)
}

func (ts *UserRepositoryTestSuite) TestBanMissingUser() {
	err := ts.repo.Ban(context.Background(), uuid.Must(uuid.NewV4()))
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}

func (ts *UserRepositoryTestSuite) TestPromoteToSysAdmin() {
	ctx := context.Background()

	u := newTestUser("promote@example.com")
	err := ts.repo.CreateWithApplication(ctx, u, nil)
	ts.Require().NoError(err)

	err = ts.repo.PromoteToSysAdmin(ctx, u.ID)
	ts.Require().NoError(err)

	promoted, err := ts.repo.FindByID(ctx, u.ID)
	ts.Require().NoError(err)
	ts.Require().True(promoted.IsSysAdmin)
	ts.Require().Equal(entity.RoleSysAdmin, entity.ResolveRole(promoted))

	err = ts.repo.PromoteToSysAdmin(ctx, uuid.Must(uuid.NewV4()))
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}
