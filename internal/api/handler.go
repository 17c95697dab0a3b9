package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofrs/uuid/v5"

	"github.com/uni-io/campus-backend/internal/entity"
	"github.com/uni-io/campus-backend/internal/service"
	"github.com/uni-io/campus-backend/pkg/config"
	"github.com/uni-io/campus-backend/pkg/logger"
)

type Service interface {
	Register(ctx context.Context, in service.RegisterInput) error
	Login(ctx context.Context, email, password string, rememberMe bool) (entity.User, entity.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Restore(ctx context.Context, sessionID string) (entity.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error

	CreateEvent(ctx context.Context, actor entity.User, in entity.EventInput) (uuid.UUID, error)
	UpdateEvent(ctx context.Context, actor entity.User, eventID uuid.UUID, in entity.EventInput) error
	DeleteEvent(ctx context.Context, actor entity.User, eventID uuid.UUID) error
	Event(ctx context.Context, eventID uuid.UUID) (entity.Event, error)
	Events(ctx context.Context) ([]entity.Event, error)
	MyEvents(ctx context.Context, actor entity.User) ([]entity.Event, error)
	ParticipatedEvents(ctx context.Context, actor entity.User) ([]entity.Event, error)
	RegisterForEvent(ctx context.Context, actor entity.User, eventID uuid.UUID) error
	UnregisterFromEvent(ctx context.Context, actor entity.User, eventID uuid.UUID) error

	BanUser(ctx context.Context, actor entity.User, targetID uuid.UUID) error
	ApproveClubAdmin(ctx context.Context, actor entity.User, applicationID uuid.UUID) error
	AddSysAdmin(ctx context.Context, actor entity.User, targetID uuid.UUID) error
	Users(ctx context.Context) ([]entity.SanitizedUser, error)
	PendingApplications(ctx context.Context) ([]entity.PendingApplication, error)
}

type Handler struct {
	s   Service
	cfg config.Config
}

func NewHandler(s Service, cfg config.Config) *Handler {
	return &Handler{
		s:   s,
		cfg: cfg,
	}
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {string} string "ok"
// @Router /api/health [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok\n"))
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// @Summary Register a new account
// @Description Creates an unverified account; a ClubAdmin signup also files a pending application.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration payload"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ResponseError "validation failure or duplicate email"
// @Failure 500 {object} ResponseError
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "auth")

	var req RegisterRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	err = h.s.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			sendErr(ctx, w, http.StatusBadRequest, err, "Email is already registered")
			return
		}

		if isValidationErr(err) {
			sendErr(ctx, w, http.StatusBadRequest, err, err.Error())
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to register")

		return
	}

	sendJSON(ctx, w, http.StatusCreated, MessageResponse{
		Message: "User registered. Please check your email to verify your account.",
	})
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type LoginResponse struct {
	Message string               `json:"message"`
	User    entity.SanitizedUser `json:"user"`
}

// @Summary Log in
// @Description Validates credentials, establishes a server-side session and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ResponseError "bad credentials"
// @Failure 403 {object} ResponseError "banned, unverified, or application pending"
// @Failure 500 {object} ResponseError
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "auth")

	var req LoginRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	user, session, err := h.s.Login(ctx, req.Email, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidCredentials) {
			sendErr(ctx, w, http.StatusUnauthorized, err, "Invalid email or password")
			return
		}

		if errors.Is(err, entity.ErrBanned) {
			sendErr(ctx, w, http.StatusForbidden, err, "Your account is banned.")
			return
		}

		if errors.Is(err, entity.ErrUnverified) {
			sendErr(ctx, w, http.StatusForbidden, err, "Please verify your email first.")
			return
		}

		if errors.Is(err, entity.ErrApplicationPending) {
			sendErr(ctx, w, http.StatusForbidden, err, "Your club admin application is still pending.")
			return
		}

		if errors.Is(err, entity.ErrApplicationRejected) {
			sendErr(ctx, w, http.StatusForbidden, err, "Your club admin application was rejected.")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to log in")

		return
	}

	h.setSessionCookie(w, session)

	sendJSON(ctx, w, http.StatusOK, LoginResponse{
		Message: "Logged in successfully",
		User:    user.Sanitized(),
	})
}

// @Summary Log out
// @Description Destroys the server-side session and clears the cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/v1/auth/logout [get]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "auth")

	cookie, err := r.Cookie(h.cfg.Session.CookieName)
	if err == nil && cookie.Value != "" {
		err = h.s.Logout(ctx, cookie.Value)
		if err != nil {
			sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to log out")
			return
		}
	}

	h.clearSessionCookie(w)

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

type StatusResponse struct {
	User entity.SanitizedUser `json:"user"`
}

// @Summary Current session status
// @Description Returns the sanitized user behind the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 401 {object} ResponseError
// @Failure 403 {object} ResponseError
// @Router /api/v1/auth/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	sendJSON(ctx, w, http.StatusOK, StatusResponse{User: user.Sanitized()})
}

// @Summary Verify email address
// @Description Consumes a single-use verification token; a replay of the same token fails.
// @Tags auth
// @Produce json
// @Param token query string true "verification token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ResponseError "missing, invalid or expired token"
// @Router /api/v1/auth/verify-email [get]
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "auth")

	token := r.URL.Query().Get("token")
	if token == "" {
		sendErr(ctx, w, http.StatusBadRequest, errors.New("token is required"), "Token is required")
		return
	}

	err := h.s.VerifyEmail(ctx, token)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidToken) {
			sendErr(ctx, w, http.StatusBadRequest, err, "Invalid or expired token")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to verify email")

		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "Email verified successfully!"})
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// @Summary Re-send the verification email
// @Description Issues a fresh token for an unverified account. The response does not reveal whether the address exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResendVerificationRequest true "email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ResponseError
// @Router /api/v1/auth/resend-verification [post]
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "auth")

	var req ResendVerificationRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := service.ValidateEmail(req.Email); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, err.Error())
		return
	}

	err = h.s.ResendVerification(ctx, req.Email)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to resend verification email")
		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{
		Message: "If the address is registered and unverified, a new verification email has been sent.",
	})
}
