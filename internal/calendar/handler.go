package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/calendar/pkg/middleware"
	"github.com/fkhayef/calendar/pkg/response"
)

// Exporter renders a calendar and its events as an iCalendar stream
type Exporter interface {
	Export(ctx context.Context, cal *Calendar, w io.Writer) error
}

// Handler handles HTTP requests for calendar operations
type Handler struct {
	service  *Service
	exporter Exporter
}

// NewHandler creates a new calendar handler. exporter may be nil, in which
// case the export route is not mounted.
func NewHandler(service *Service, exporter Exporter) *Handler {
	return &Handler{service: service, exporter: exporter}
}

// Routes returns the router for calendar endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	if h.exporter != nil {
		r.Get("/{id}/export.ics", h.Export)
	}

	return r
}

// Create handles POST /calendars
// @Summary      Create a new calendar
// @Description  Create a calendar owned by the calling actor
// @Tags         calendars
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        request body CreateCalendarRequest true "Calendar creation request"
// @Success      201 {object} response.APIResponse{data=Calendar}
// @Failure      400 {object} response.APIResponse
// @Router       /calendars [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		response.Unauthorized(w, "Actor identity required")
		return
	}

	var req CreateCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	cal, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, cal)
}

// GetByID handles GET /calendars/{id}
// @Summary      Get calendar by ID
// @Tags         calendars
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Calendar ID"
// @Success      200 {object} response.APIResponse{data=Calendar}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /calendars/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	cal, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cal)
}

// List handles GET /calendars
// @Summary      List my calendars
// @Description  Calendars the actor owns, plus shared ones when include_shared is set
// @Tags         calendars
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        include_shared query bool false "Include shared calendars"
// @Success      200 {object} response.APIResponse{data=[]Calendar}
// @Router       /calendars [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())
	includeShared, _ := strconv.ParseBool(r.URL.Query().Get("include_shared"))

	calendars, err := h.service.List(r.Context(), actorID, includeShared)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, calendars, &response.Meta{Total: len(calendars)})
}

// Update handles PUT /calendars/{id}
// @Summary      Update a calendar
// @Tags         calendars
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Calendar ID"
// @Param        request body UpdateCalendarRequest true "Fields to change"
// @Success      200 {object} response.APIResponse{data=Calendar}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /calendars/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	var req UpdateCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	cal, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), actorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cal)
}

// Delete handles DELETE /calendars/{id}
// @Summary      Delete a calendar
// @Description  Deletes the calendar and every event it contains
// @Tags         calendars
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Calendar ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /calendars/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), actorID); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Calendar deleted successfully"})
}

// Export handles GET /calendars/{id}/export.ics
// @Summary      Export a calendar
// @Description  Render the calendar's events as RFC 5545 iCalendar
// @Tags         calendars
// @Produce      text/calendar
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Calendar ID"
// @Success      200 {string} string
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /calendars/{id}/export.ics [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	cal, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(r.Context(), cal, &buf); err != nil {
		response.FromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+cal.ID+`.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
