package api

import (
	"errors"
	"net/http"

	"github.com/uni-io/campus-backend/internal/entity"
	"github.com/uni-io/campus-backend/pkg/logger"
)

// @Summary Ban a user
// @Description SysAdmin only. Other sysAdmins cannot be banned.
// @Tags sysadmin
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ResponseError "target is a sysAdmin"
// @Failure 404 {object} ResponseError
// @Router /api/v1/sysadmin/ban/{id} [post]
func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "sysadmin")

	actor, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	targetID, err := pathID(r, "id")
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid user id")
		return
	}

	err = h.s.BanUser(ctx, actor, targetID)
	if err != nil {
		if errors.Is(err, entity.ErrCannotBanSysAdmin) {
			sendErr(ctx, w, http.StatusForbidden, err, "Cannot ban a system administrator")
			return
		}

		if errors.Is(err, entity.ErrNotFound) {
			sendErr(ctx, w, http.StatusNotFound, err, "User not found")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to ban user")

		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "User banned successfully"})
}

// @Summary Approve a club admin application
// @Description SysAdmin only. Only pending applications can be approved.
// @Tags sysadmin
// @Produce json
// @Param id path string true "application id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ResponseError "application already reviewed"
// @Failure 404 {object} ResponseError
// @Router /api/v1/sysadmin/approve-club-admin/{id} [post]
func (h *Handler) ApproveClubAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "sysadmin")

	actor, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	applicationID, err := pathID(r, "id")
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid application id")
		return
	}

	err = h.s.ApproveClubAdmin(ctx, actor, applicationID)
	if err != nil {
		if errors.Is(err, entity.ErrApplicationNotPending) {
			sendErr(ctx, w, http.StatusBadRequest, err, "Application has already been reviewed")
			return
		}

		if errors.Is(err, entity.ErrNotFound) {
			sendErr(ctx, w, http.StatusNotFound, err, "Application not found")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to approve application")

		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "Application approved successfully"})
}

// @Summary Promote a user to sysAdmin
// @Description SysAdmin only.
// @Tags sysadmin
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ResponseError
// @Router /api/v1/sysadmin/add-sysadmin/{id} [post]
func (h *Handler) AddSysAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "sysadmin")

	actor, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	targetID, err := pathID(r, "id")
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid user id")
		return
	}

	err = h.s.AddSysAdmin(ctx, actor, targetID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			sendErr(ctx, w, http.StatusNotFound, err, "User not found")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to promote user")

		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "User promoted to system administrator"})
}

// @Summary List all users
// @Description SysAdmin only. Password hashes and tokens are never exposed.
// @Tags sysadmin
// @Produce json
// @Success 200 {array} entity.SanitizedUser
// @Router /api/v1/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.s.Users(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to list users")
		return
	}

	sendJSON(ctx, w, http.StatusOK, users)
}

// @Summary List pending club admin applications
// @Description SysAdmin only.
// @Tags sysadmin
// @Produce json
// @Success 200 {array} entity.PendingApplication
// @Router /api/v1/sysadmin/applications [get]
func (h *Handler) PendingApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps, err := h.s.PendingApplications(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to list applications")
		return
	}

	sendJSON(ctx, w, http.StatusOK, apps)
}
