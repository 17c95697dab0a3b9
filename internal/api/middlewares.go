package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/uni-io/campus-backend/internal/entity"
	"github.com/uni-io/campus-backend/pkg/config"
	"github.com/uni-io/campus-backend/pkg/logger"
)

var skipLogging = map[string]struct{}{
	"/api/health": {},
}

type Middleware struct {
	s   Service
	cfg config.Config
}

func NewMiddleware(s Service, cfg config.Config) *Middleware {
	return &Middleware{
		s:   s,
		cfg: cfg,
	}
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept, User-Agent, Cache-Control")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := logger.SetRequestID(r.Context(), uuid.Must(uuid.NewV4()).String())
		ctx = logger.SetMethod(ctx, r.Method)
		ctx = logger.SetURL(ctx, r.URL.Path)
		ctx = logger.SetIP(ctx, entity.IPFromCtx(ctx))
		ctx = logger.SetLogType(ctx, "webrequest")

		if _, ok := skipLogging[r.URL.Path]; !ok {
			slog.InfoContext(ctx, "incoming request")
		}

		next.ServeHTTP(w, r.WithContext(ctx))

		duration := time.Since(start)

		if _, ok := skipLogging[r.URL.Path]; !ok {
			slog.InfoContext(ctx, "request completed", "duration_ms", duration.Milliseconds())
		}
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			err := recover()
			if err != nil {
				slog.ErrorContext(ctx, "panic", "error", err, "stack", string(debug.Stack()))
			}
		}(r.Context())
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) WithIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := removePort(r.RemoteAddr)

		if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
			for _, part := range strings.Split(xForwardedFor, ",") {
				part = removePort(strings.TrimSpace(part))
				if isValidIP(part) {
					ip = part
					break
				}
			}
		}

		if xRealIP := removePort(r.Header.Get("X-Real-IP")); isValidIP(xRealIP) {
			ip = xRealIP
		}

		if !isValidIP(ip) {
			ip = "unknown"
		}

		ctx := context.WithValue(r.Context(), entity.CtxKeyIP{}, ip)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authenticate restores the session behind the cookie and loads the current
// user record into the request context. The restore re-reads the user row, so
// a ban, approval or promotion is enforced here on the very next request.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cookie, err := r.Cookie(m.cfg.Session.CookieName)
		if err != nil || cookie.Value == "" {
			sendErr(ctx, w, http.StatusUnauthorized, entity.ErrUnauthenticated, "Unauthorized")
			return
		}

		user, err := m.s.Restore(ctx, cookie.Value)
		if err != nil {
			m.denyRestore(ctx, w, err)
			return
		}

		ctx = entity.CtxWithUser(ctx, user)
		ctx = logger.SetUserID(ctx, user.ID.String())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) denyRestore(ctx context.Context, w http.ResponseWriter, err error) {
	ctx = logger.SetLogType(ctx, "auth")

	switch {
	case errors.Is(err, entity.ErrUnauthenticated):
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
	case errors.Is(err, entity.ErrBanned):
		sendErr(ctx, w, http.StatusForbidden, err, "Your account is banned.")
	case errors.Is(err, entity.ErrUnverified):
		sendErr(ctx, w, http.StatusForbidden, err, "Please verify your email first.")
	case errors.Is(err, entity.ErrApplicationPending):
		sendErr(ctx, w, http.StatusForbidden, err, "Your club admin application is still pending.")
	case errors.Is(err, entity.ErrApplicationRejected):
		sendErr(ctx, w, http.StatusForbidden, err, "Your club admin application was rejected.")
	default:
		sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
	}
}

// RequireRole gates a route on the role derived from the freshly restored
// user record. Roles are recomputed per request, never read from the session.
func (m *Middleware) RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, err := entity.UserFromCtx(ctx)
			if err != nil {
				sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
				return
			}

			if !slices.Contains(roles, entity.ResolveRole(user)) {
				sendErr(ctx, w, http.StatusForbidden, entity.ErrForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func removePort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return host
}

func isValidIP(ip string) bool {
	return ip != "" && net.ParseIP(ip) != nil
}
