package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/uni-io/campus-backend/internal/api"
	"github.com/uni-io/campus-backend/internal/entity"
	"github.com/uni-io/campus-backend/internal/service"
	"github.com/uni-io/campus-backend/pkg/config"
)

// fakeService lets each test wire only the operations it exercises. An
// operation without an override fails loudly instead of passing silently.
type fakeService struct {
	registerFn      func(ctx context.Context, in service.RegisterInput) error
	loginFn         func(ctx context.Context, email, password string, rememberMe bool) (entity.User, entity.Session, error)
	restoreFn       func(ctx context.Context, sessionID string) (entity.User, error)
	verifyEmailFn   func(ctx context.Context, token string) error
	updateEventFn   func(ctx context.Context, actor entity.User, eventID uuid.UUID, in entity.EventInput) error
	registerEventFn func(ctx context.Context, actor entity.User, eventID uuid.UUID) error
	banUserFn       func(ctx context.Context, actor entity.User, targetID uuid.UUID) error
	approveFn       func(ctx context.Context, actor entity.User, applicationID uuid.UUID) error
	listEventsFn    func(ctx context.Context) ([]entity.Event, error)
	pendingFn       func(ctx context.Context) ([]entity.PendingApplication, error)
}

func (f *fakeService) Register(ctx context.Context, in service.RegisterInput) error {
	return f.registerFn(ctx, in)
}

func (f *fakeService) Login(ctx context.Context, email, password string, rememberMe bool) (entity.User, entity.Session, error) {
	return f.loginFn(ctx, email, password, rememberMe)
}

func (f *fakeService) Logout(context.Context, string) error { return nil }

func (f *fakeService) Restore(ctx context.Context, sessionID string) (entity.User, error) {
	return f.restoreFn(ctx, sessionID)
}

func (f *fakeService) VerifyEmail(ctx context.Context, token string) error {
	return f.verifyEmailFn(ctx, token)
}

func (f *fakeService) ResendVerification(context.Context, string) error { return nil }

func (f *fakeService) CreateEvent(context.Context, entity.User, entity.EventInput) (uuid.UUID, error) {
	return uuid.Must(uuid.NewV4()), nil
}

func (f *fakeService) UpdateEvent(ctx context.Context, actor entity.User, eventID uuid.UUID, in entity.EventInput) error {
	return f.updateEventFn(ctx, actor, eventID, in)
}

func (f *fakeService) DeleteEvent(context.Context, entity.User, uuid.UUID) error { return nil }

func (f *fakeService) Event(context.Context, uuid.UUID) (entity.Event, error) {
	return entity.Event{}, entity.ErrNotFound
}

func (f *fakeService) Events(ctx context.Context) ([]entity.Event, error) {
	return f.listEventsFn(ctx)
}

func (f *fakeService) MyEvents(context.Context, entity.User) ([]entity.Event, error) {
	return nil, nil
}

func (f *fakeService) ParticipatedEvents(context.Context, entity.User) ([]entity.Event, error) {
	return nil, nil
}

func (f *fakeService) RegisterForEvent(ctx context.Context, actor entity.User, eventID uuid.UUID) error {
	return f.registerEventFn(ctx, actor, eventID)
}

func (f *fakeService) UnregisterFromEvent(context.Context, entity.User, uuid.UUID) error {
	return entity.ErrNotRegistered
}

func (f *fakeService) BanUser(ctx context.Context, actor entity.User, targetID uuid.UUID) error {
	return f.banUserFn(ctx, actor, targetID)
}

func (f *fakeService) ApproveClubAdmin(ctx context.Context, actor entity.User, applicationID uuid.UUID) error {
	return f.approveFn(ctx, actor, applicationID)
}

func (f *fakeService) AddSysAdmin(context.Context, entity.User, uuid.UUID) error { return nil }

func (f *fakeService) Users(context.Context) ([]entity.SanitizedUser, error) { return nil, nil }

func (f *fakeService) PendingApplications(ctx context.Context) ([]entity.PendingApplication, error) {
	return f.pendingFn(ctx)
}

func testCfg() config.Config {
	return config.Config{
		Session: config.SessionConfig{CookieName: "session_id"},
	}
}

func newTestServer(t *testing.T, s *fakeService) *httptest.Server {
	t.Helper()

	cfg := testCfg()
	h := api.NewHandler(s, cfg)
	mw := api.NewMiddleware(s, cfg)

	srv := httptest.NewServer(api.NewRouter(h, mw))
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, method, url, body, cookie string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func restoreAs(user entity.User) func(context.Context, string) (entity.User, error) {
	return func(_ context.Context, sessionID string) (entity.User, error) {
		if sessionID != "sid" {
			return entity.User{}, entity.ErrUnauthenticated
		}

		return user, nil
	}
}

func student() entity.User {
	return entity.User{
		ID:              uuid.Must(uuid.NewV4()),
		IsVerified:      true,
		ClubAdminStatus: entity.ClubAdminNeverApplied,
	}
}

func clubAdmin() entity.User {
	return entity.User{
		ID:              uuid.Must(uuid.NewV4()),
		IsVerified:      true,
		ClubAdminStatus: entity.ClubAdminAccepted,
	}
}

func sysAdmin() entity.User {
	return entity.User{ID: uuid.Must(uuid.NewV4()), IsVerified: true, IsSysAdmin: true}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		registerFn: func(context.Context, service.RegisterInput) error {
			return entity.ErrAlreadyExists
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register",
		`{"name":"Alice Smith","username":"alice_s","email":"alice@example.com","password":"correct-horse","role":"student"}`, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_UnverifiedAccount(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		loginFn: func(context.Context, string, string, bool) (entity.User, entity.Session, error) {
			return entity.User{}, entity.Session{}, entity.ErrUnverified
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login",
		`{"email":"alice@example.com","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogin_PendingApplication(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		loginFn: func(context.Context, string, string, bool) (entity.User, entity.Session, error) {
			return entity.User{}, entity.Session{}, entity.ErrApplicationPending
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login",
		`{"email":"alice@example.com","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		loginFn: func(context.Context, string, string, bool) (entity.User, entity.Session, error) {
			return entity.User{}, entity.Session{}, entity.ErrInvalidCredentials
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login",
		`{"email":"alice@example.com","password":"wrong-horse"}`, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		loginFn: func(context.Context, string, string, bool) (entity.User, entity.Session, error) {
			return student(), entity.Session{ID: "sid"}, nil
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login",
		`{"email":"alice@example.com","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found bool

	for _, c := range resp.Cookies() {
		if c.Name == "session_id" && c.Value == "sid" {
			found = true

			require.True(t, c.HttpOnly)
		}
	}

	require.True(t, found, "expected session cookie to be set")
}

func TestVerifyEmail_MissingToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeService{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/verify-email", "", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerifyEmail_InvalidToken(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		verifyEmailFn: func(context.Context, string) error {
			return entity.ErrInvalidToken
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/verify-email?token=stale", "", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoute_NoCookie(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeService{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/status", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGate_StudentOnClubAdminRoute(t *testing.T) {
	t.Parallel()

	s := &fakeService{restoreFn: restoreAs(student())}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/events/my-events", "", "sid")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRoleGate_ClubAdminOnStudentRoute(t *testing.T) {
	t.Parallel()

	s := &fakeService{restoreFn: restoreAs(clubAdmin())}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/events/participated/list", "", "sid")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRoleGate_BannedMidSession(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		restoreFn: func(context.Context, string) (entity.User, error) {
			return entity.User{}, entity.ErrBanned
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/auth/status", "", "sid")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateEvent_Foreign(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		restoreFn: restoreAs(clubAdmin()),
		updateEventFn: func(context.Context, entity.User, uuid.UUID, entity.EventInput) error {
			return entity.ErrNotFound
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/events/"+uuid.Must(uuid.NewV4()).String(),
		`{"title":"Changed"}`, "sid")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterForEvent_Duplicate(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		restoreFn: restoreAs(student()),
		registerEventFn: func(context.Context, entity.User, uuid.UUID) error {
			return entity.ErrAlreadyRegistered
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost,
		srv.URL+"/api/v1/events/"+uuid.Must(uuid.NewV4()).String()+"/register", "", "sid")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterForEvent_Full(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		restoreFn: restoreAs(student()),
		registerEventFn: func(context.Context, entity.User, uuid.UUID) error {
			return entity.ErrEventFull
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost,
		srv.URL+"/api/v1/events/"+uuid.Must(uuid.NewV4()).String()+"/register", "", "sid")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBanUser_SysAdminTarget(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		restoreFn: restoreAs(sysAdmin()),
		banUserFn: func(context.Context, entity.User, uuid.UUID) error {
			return entity.ErrCannotBanSysAdmin
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost,
		srv.URL+"/api/v1/sysadmin/ban/"+uuid.Must(uuid.NewV4()).String(), "", "sid")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBanUser_RequiresSysAdmin(t *testing.T) {
	t.Parallel()

	s := &fakeService{restoreFn: restoreAs(clubAdmin())}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost,
		srv.URL+"/api/v1/sysadmin/ban/"+uuid.Must(uuid.NewV4()).String(), "", "sid")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestApproveClubAdmin_AlreadyReviewed(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		restoreFn: restoreAs(sysAdmin()),
		approveFn: func(context.Context, entity.User, uuid.UUID) error {
			return entity.ErrApplicationNotPending
		},
	}
	srv := newTestServer(t, s)

	resp := doJSON(t, http.MethodPost,
		srv.URL+"/api/v1/sysadmin/approve-club-admin/"+uuid.Must(uuid.NewV4()).String(), "", "sid")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListEvents_RoleSplit(t *testing.T) {
	t.Parallel()

	s := &fakeService{
		restoreFn: restoreAs(student()),
		listEventsFn: func(context.Context) ([]entity.Event, error) {
			return []entity.Event{}, nil
		},
	}
	srv := newTestServer(t, s)

	// same listing, different gates: students browse, club admins use /events
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/events/browse", "", "sid")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/events", "", "sid")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeService{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
