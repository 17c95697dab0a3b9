package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofrs/uuid/v5"

	"github.com/uni-io/campus-backend/internal/entity"
	"github.com/uni-io/campus-backend/pkg/logger"
)

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.FromString(r.PathValue(name))
}

type CreateEventResponse struct {
	Message string    `json:"message"`
	EventID uuid.UUID `json:"eventId"`
}

// @Summary Create an event
// @Description Club admin only. The caller becomes the owning organizer.
// @Tags events
// @Accept json
// @Produce json
// @Param request body entity.EventInput true "event payload"
// @Success 201 {object} CreateEventResponse
// @Failure 401 {object} ResponseError
// @Failure 403 {object} ResponseError
// @Router /api/v1/events/create [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "events")

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	var in entity.EventInput

	err = json.NewDecoder(r.Body).Decode(&in)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	eventID, err := h.s.CreateEvent(ctx, user, in)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to create event")
		return
	}

	sendJSON(ctx, w, http.StatusCreated, CreateEventResponse{
		Message: "Event created successfully",
		EventID: eventID,
	})
}

// @Summary Update an event
// @Description Club admin only, and only for events the caller organizes. A foreign event reads as not found.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "event id"
// @Param request body entity.EventInput true "event payload"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ResponseError "missing or not owned"
// @Router /api/v1/events/{id} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "events")

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	eventID, err := pathID(r, "id")
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid event id")
		return
	}

	var in entity.EventInput

	err = json.NewDecoder(r.Body).Decode(&in)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	err = h.s.UpdateEvent(ctx, user, eventID, in)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			sendErr(ctx, w, http.StatusNotFound, err, "Event not found or you are not allowed to edit")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to update event")

		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "Event updated successfully"})
}

// @Summary Delete an event
// @Description Owning club admin or any sysAdmin.
// @Tags events
// @Produce json
// @Param id path string true "event id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ResponseError
// @Router /api/v1/events/{id} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "events")

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	eventID, err := pathID(r, "id")
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid event id")
		return
	}

	err = h.s.DeleteEvent(ctx, user, eventID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			sendErr(ctx, w, http.StatusNotFound, err, "Event not found or not allowed to delete")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to delete event")

		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "Event deleted successfully"})
}

// @Summary List all events
// @Tags events
// @Produce json
// @Success 200 {array} entity.Event
// @Router /api/v1/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.s.Events(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to list events")
		return
	}

	sendJSON(ctx, w, http.StatusOK, events)
}

// @Summary Event details
// @Tags events
// @Produce json
// @Param id path string true "event id"
// @Success 200 {object} entity.Event
// @Failure 404 {object} ResponseError
// @Router /api/v1/events/{id} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := pathID(r, "id")
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid event id")
		return
	}

	event, err := h.s.Event(ctx, eventID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			sendErr(ctx, w, http.StatusNotFound, err, "Event not found")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to load event")

		return
	}

	sendJSON(ctx, w, http.StatusOK, event)
}

// @Summary List own events with registration counts
// @Description Club admin only.
// @Tags events
// @Produce json
// @Success 200 {array} entity.Event
// @Router /api/v1/events/my-events [get]
func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	events, err := h.s.MyEvents(ctx, user)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to list events")
		return
	}

	sendJSON(ctx, w, http.StatusOK, events)
}

// @Summary Register for an event
// @Description Student only. Duplicate registrations and full events are reported as conflicts.
// @Tags events
// @Produce json
// @Param id path string true "event id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ResponseError "already registered / event full / deadline passed"
// @Failure 404 {object} ResponseError
// @Router /api/v1/events/{id}/register [post]
func (h *Handler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "events")

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	eventID, err := pathID(r, "id")
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid event id")
		return
	}

	err = h.s.RegisterForEvent(ctx, user, eventID)
	if err != nil {
		if errors.Is(err, entity.ErrClubAdminCannotEnroll) {
			sendErr(ctx, w, http.StatusForbidden, err, "Club admins cannot register for events")
			return
		}

		if errors.Is(err, entity.ErrAlreadyRegistered) {
			sendErr(ctx, w, http.StatusBadRequest, err, "Already registered")
			return
		}

		if errors.Is(err, entity.ErrEventFull) {
			sendErr(ctx, w, http.StatusBadRequest, err, "Event is full")
			return
		}

		if errors.Is(err, entity.ErrDeadlinePassed) {
			sendErr(ctx, w, http.StatusBadRequest, err, "Registration deadline has passed")
			return
		}

		if errors.Is(err, entity.ErrNotFound) {
			sendErr(ctx, w, http.StatusNotFound, err, "Event not found")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to register")

		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "Registered successfully"})
}

// @Summary Unregister from an event
// @Description Student only.
// @Tags events
// @Produce json
// @Param id path string true "event id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ResponseError "not registered"
// @Router /api/v1/events/{id}/unregister [post]
func (h *Handler) UnregisterFromEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx = logger.SetLogType(ctx, "events")

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	eventID, err := pathID(r, "id")
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Invalid event id")
		return
	}

	err = h.s.UnregisterFromEvent(ctx, user, eventID)
	if err != nil {
		if errors.Is(err, entity.ErrNotRegistered) {
			sendErr(ctx, w, http.StatusNotFound, err, "Not registered for this event")
			return
		}

		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to unregister")

		return
	}

	sendJSON(ctx, w, http.StatusOK, MessageResponse{Message: "Unregistered successfully"})
}

// @Summary List events the caller participated in
// @Description Student only.
// @Tags events
// @Produce json
// @Success 200 {array} entity.Event
// @Router /api/v1/events/participated/list [get]
func (h *Handler) ParticipatedEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := entity.UserFromCtx(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusUnauthorized, err, "Unauthorized")
		return
	}

	events, err := h.s.ParticipatedEvents(ctx, user)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, "Failed to list events")
		return
	}

	sendJSON(ctx, w, http.StatusOK, events)
}
