package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/uni-io/campus-backend/docs" // swagger docs

	"github.com/uni-io/campus-backend/internal/entity"
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("/api/health", h.Health)

	router.HandleFunc("POST /api/v1/auth/register", h.Register)
	router.HandleFunc("POST /api/v1/auth/login", h.Login)
	router.HandleFunc("GET /api/v1/auth/logout", h.Logout)
	router.HandleFunc("GET /api/v1/auth/verify-email", h.VerifyEmail)
	router.HandleFunc("POST /api/v1/auth/resend-verification", h.ResendVerification)

	authed := func(fn http.HandlerFunc, roles ...entity.Role) http.Handler {
		var handler http.Handler = fn
		if len(roles) > 0 {
			handler = mw.RequireRole(roles...)(handler)
		}

		return mw.Authenticate(handler)
	}

	router.Handle("GET /api/v1/auth/status", authed(h.Status))

	router.Handle("GET /api/v1/events", authed(h.ListEvents, entity.RoleClubAdmin))
	router.Handle("GET /api/v1/events/browse", authed(h.ListEvents, entity.RoleStudent))
	router.Handle("GET /api/v1/events/my-events", authed(h.MyEvents, entity.RoleClubAdmin))
	router.Handle("GET /api/v1/events/participated/list", authed(h.ParticipatedEvents, entity.RoleStudent))
	router.Handle("POST /api/v1/events/create", authed(h.CreateEvent, entity.RoleClubAdmin))
	router.Handle("GET /api/v1/events/{id}", authed(h.GetEvent))
	router.Handle("PUT /api/v1/events/{id}", authed(h.UpdateEvent, entity.RoleClubAdmin))
	router.Handle("DELETE /api/v1/events/{id}", authed(h.DeleteEvent, entity.RoleClubAdmin, entity.RoleSysAdmin))
	router.Handle("POST /api/v1/events/{id}/register", authed(h.RegisterForEvent, entity.RoleStudent))
	router.Handle("POST /api/v1/events/{id}/unregister", authed(h.UnregisterFromEvent, entity.RoleStudent))

	router.Handle("GET /api/v1/users", authed(h.ListUsers, entity.RoleSysAdmin))
	router.Handle("GET /api/v1/sysadmin/applications", authed(h.PendingApplications, entity.RoleSysAdmin))
	router.Handle("POST /api/v1/sysadmin/ban/{id}", authed(h.BanUser, entity.RoleSysAdmin))
	router.Handle("POST /api/v1/sysadmin/approve-club-admin/{id}", authed(h.ApproveClubAdmin, entity.RoleSysAdmin))
	router.Handle("POST /api/v1/sysadmin/add-sysadmin/{id}", authed(h.AddSysAdmin, entity.RoleSysAdmin))
	router.Handle("DELETE /api/v1/sysadmin/event/{id}", authed(h.DeleteEvent, entity.RoleSysAdmin))

	router.HandleFunc("/api/swagger/", httpSwagger.WrapHandler)

	handler := use(router, mw.Recover, mw.Cors, mw.WithIP, mw.Log)

	return handler
}

func use(handler http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}

	return handler
}
