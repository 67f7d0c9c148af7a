// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/eventhub/internal/logger"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EventHandler holds all HTTP handlers for the event management API.
type EventHandler struct {
	svc *service.EventManagementSystem
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventManagementSystem) *EventHandler {
	return &EventHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps a service error onto a status code. Domain errors
// carry user-facing messages and are passed through as is.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, verrs.Error())
	case errors.Is(err, model.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrEventNotFound), errors.Is(err, model.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, model.ErrEventInPast):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrUsernameExists),
		errors.Is(err, model.ErrRegistrationRejected),
		errors.Is(err, model.ErrNotRegistered),
		errors.Is(err, model.ErrCapacityBelowRegistrations):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.WithUser(UserID(r.Context())).ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func eventViews(events []*model.Event) []model.EventView {
	views := make([]model.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, model.NewEventView(e))
	}
	return views
}

// ─── Events ───────────────────────────────────────────────────────────────────

// ListEvents handles GET /events
// Returns approved events. ?category= filters, ?sort=date orders by date.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events := h.svc.GetAvailableEvents(q.Get("category"), q.Get("sort") == "date")
	writeJSON(w, http.StatusOK, eventViews(events))
}

// CreateEvent handles POST /events
// Creates a pending event owned by the caller.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id, err := h.svc.CreateEvent(r.Context(), req.Details(), UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{ID: id, Message: model.MsgEventCreated})
}

// GetEvent handles GET /events/{id}
// Pending events are visible only to their organizer and to admins.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if !event.IsApproved {
		caller := UserID(r.Context())
		if event.OrganizerID != caller && !h.isAdmin(caller) {
			writeServiceError(w, r, model.ErrEventNotFound)
			return
		}
	}

	writeJSON(w, http.StatusOK, model.NewEventView(event))
}

// UpdateEvent handles PUT /events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.UpdateEvent(r.Context(), id, req.Details(), UserID(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{ID: id, Message: model.MsgEventUpdated})
}

// ApproveEvent handles POST /events/{id}/approve
func (h *EventHandler) ApproveEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.ApproveEvent(r.Context(), id, UserID(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{ID: id, Message: "Event approved successfully"})
}

// PendingEvents handles GET /events/pending
func (h *EventHandler) PendingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.PendingEvents(UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, eventViews(events))
}

// ─── Registrations ────────────────────────────────────────────────────────────

// Register handles POST /events/{id}/register
// Takes a seat for the calling user.
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.RegisterForEvent(r.Context(), id, UserID(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{ID: id, Message: "Successfully registered for event"})
}

// Unregister handles DELETE /events/{id}/register
func (h *EventHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.UnregisterFromEvent(r.Context(), id, UserID(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{ID: id, Message: "Successfully unregistered from event"})
}

// ListRegistrations handles GET /events/{id}/registrations
// Returns the registrants of an event. Admins see every event, organizers
// only their own.
func (h *EventHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.GetEvent(id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	caller := UserID(r.Context())
	owner := caller
	if h.isAdmin(caller) {
		owner = ""
	}

	users := make([]*model.User, 0)
	for _, uid := range h.svc.GetEventRegistrations(id, owner) {
		if u, err := h.svc.GetUser(uid); err == nil {
			users = append(users, u)
		}
	}

	writeJSON(w, http.StatusOK, users)
}

// ─── Current user ─────────────────────────────────────────────────────────────

// Me handles GET /me
func (h *EventHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUser(UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// UpdateProfile handles PATCH /me
func (h *EventHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	caller := UserID(r.Context())
	if err := h.svc.UpdateProfile(r.Context(), caller, req.Username, req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.svc.GetUser(caller)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// MyRegistrations handles GET /me/registrations
// Returns the approved events the caller holds a seat in.
func (h *EventHandler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, eventViews(h.svc.RegisteredEvents(UserID(r.Context()))))
}

// MyEvents handles GET /me/events
// Returns every event the caller organizes, approved or pending.
func (h *EventHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, eventViews(h.svc.GetUserEvents(UserID(r.Context()))))
}

// ─── Administration ───────────────────────────────────────────────────────────

// ListUsers handles GET /users
func (h *EventHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// DeleteUser handles DELETE /users/{id}
func (h *EventHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteUser(r.Context(), id, UserID(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{ID: id, Message: model.MsgUserDeleted})
}

func (h *EventHandler) isAdmin(userID string) bool {
	u, err := h.svc.GetUser(userID)
	return err == nil && u.IsAdmin()
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
