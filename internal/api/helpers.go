package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/uni-io/campus-backend/internal/entity"
)

const errInternalText = "Internal error"

type ResponseError struct {
	Message string `json:"message"`
}

func sendErr(ctx context.Context, w http.ResponseWriter, code int, err error, msg string) {
	logErr := "unknown"
	if err != nil {
		logErr = err.Error()
	}

	slog.ErrorContext(ctx, msg, "error", logErr, "http_code", code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err = json.NewEncoder(w).Encode(ResponseError{Message: msg})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode error response", "error", err.Error())
	}
}

func sendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
		return
	}
}

func isValidationErr(err error) bool {
	return errors.Is(err, entity.ErrEmailInvalidLen) ||
		errors.Is(err, entity.ErrEmailInvalidFormat) ||
		errors.Is(err, entity.ErrNameInvalidLen) ||
		errors.Is(err, entity.ErrUsernameInvalid) ||
		errors.Is(err, entity.ErrPasswordInvalidLen) ||
		errors.Is(err, entity.ErrRoleInvalid)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session entity.Session) {
	cookie := h.sessionCookie(session.ID)
	cookie.Expires = session.ExpiresAt

	http.SetCookie(w, cookie)
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	cookie := h.sessionCookie("")
	cookie.MaxAge = -1

	http.SetCookie(w, cookie)
}

// sessionCookie applies the cross-site switch: a frontend served from a
// separate TLS origin needs Secure + SameSite=None, everything else gets Lax.
func (h *Handler) sessionCookie(value string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cfg.Session.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if h.cfg.Session.CrossSite {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}

	return cookie
}
