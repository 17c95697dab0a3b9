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

type SessionRepositoryTestSuite struct {
	suite.Suite
	repo  *repository.SessionRepository
	users *repository.UserRepository
}

func (ts *SessionRepositoryTestSuite) SetupTest() {
	db := repository.SetupTestDatabase(ts.T())
	ts.repo = repository.NewSessionRepository(db)
	ts.users = repository.NewUserRepository(db)
}

func TestSessionRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(SessionRepositoryTestSuite))
}

func (ts *SessionRepositoryTestSuite) newSession(ttl time.Duration) entity.Session {
	ctx := context.Background()

	u := newTestUser("session_" + uuid.Must(uuid.NewV4()).String()[:8] + "@example.com")
	err := ts.users.CreateWithApplication(ctx, u, nil)
	ts.Require().NoError(err)

	return entity.Session{
		ID:        "sess_" + uuid.Must(uuid.NewV4()).String(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
}

func (ts *SessionRepositoryTestSuite) TestSaveAndFind() {
	ctx := context.Background()

	s := ts.newSession(24 * time.Hour)
	err := ts.repo.Save(ctx, s)
	ts.Require().NoError(err)

	found, err := ts.repo.Find(ctx, s.ID)
	ts.Require().NoError(err)
	ts.Require().Equal(s.UserID, found.UserID)
}

func (ts *SessionRepositoryTestSuite) TestFindExpired() {
	ctx := context.Background()

	s := ts.newSession(-time.Hour)
	err := ts.repo.Save(ctx, s)
	ts.Require().NoError(err)

	_, err = ts.repo.Find(ctx, s.ID)
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}

func (ts *SessionRepositoryTestSuite) TestDelete() {
	ctx := context.Background()

	s := ts.newSession(24 * time.Hour)
	err := ts.repo.Save(ctx, s)
	ts.Require().NoError(err)

	err = ts.repo.Delete(ctx, s.ID)
	ts.Require().NoError(err)

	_, err = ts.repo.Find(ctx, s.ID)
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}

func (ts *SessionRepositoryTestSuite) TestDeleteByUserID() {
	ctx := context.Background()

	s := ts.newSession(24 * time.Hour)
	other := ts.newSession(24 * time.Hour)

	ts.Require().NoError(ts.repo.Save(ctx, s))
	ts.Require().NoError(ts.repo.Save(ctx, other))

	err := ts.repo.DeleteByUserID(ctx, s.UserID)
	ts.Require().NoError(err)

	_, err = ts.repo.Find(ctx, s.ID)
	ts.Require().ErrorIs(err, entity.ErrNotFound)

	_, err = ts.repo.Find(ctx, other.ID)
	ts.Require().NoError(err)
}

func (ts *SessionRepositoryTestSuite) TestDeleteExpired() {
	ctx := context.Background()

	live := ts.newSession(24 * time.Hour)
	dead := ts.newSession(-time.Hour)

	ts.Require().NoError(ts.repo.Save(ctx, live))
	ts.Require().NoError(ts.repo.Save(ctx, dead))

	err := ts.repo.DeleteExpired(ctx)
	ts.Require().NoError(err)

	_, err = ts.repo.Find(ctx, live.ID)
	ts.Require().NoError(err)
}
