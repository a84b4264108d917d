package event

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/calendar/pkg/middleware"
	"github.com/fkhayef/calendar/pkg/response"
)

// Handler handles HTTP requests for event operations
type Handler struct {
	service *Service
}

// NewHandler creates a new event handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for event endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.Query)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/resume", h.Resume)

	return r
}

// Create handles POST /events
// @Summary      Create an event
// @Description  Stores the event (and its recurrence instances), then sends invitations and schedules reminders
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        request body CreateEventRequest true "Event creation request"
// @Success      201 {object} response.APIResponse{data=Event}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse "Partial failure with completed steps"
// @Router       /events [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, e)
}

// GetByID handles GET /events/{id}
// @Summary      Get event by ID
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=Event}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	e, err := h.service.View(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e)
}

// Query handles GET /events
// @Description  Live events the caller may view, sorted by start time, untimed events last
// @Description  Live events sorted by start time, untimed events last
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        calendar_id query string false "Calendar ID"
// @Param        actor_id query string false "Organizer or attendee"
// @Param        from query string false "Earliest start (RFC 3339)"
// @Param        to query string false "Latest start (RFC 3339)"
// @Param        type query string false "Event type"
// @Param        status query string false "Event status"
// @Param        q query string false "Text in title, description or location"
// @Param        offset query int false "Offset" default(0)
// @Param        limit query int false "Limit" default(50)
// @Success      200 {object} response.APIResponse{data=[]Event}
// @Failure      400 {object} response.APIResponse
// @Router       /events [get]
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())
	q := r.URL.Query()

	from, err := parseTimeParam(q.Get("from"))
	if err != nil {
		response.BadRequest(w, "Invalid from time, expected RFC 3339")
		return
	}
	to, err := parseTimeParam(q.Get("to"))
	if err != nil {
		response.BadRequest(w, "Invalid to time, expected RFC 3339")
		return
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	f := Filter{
		CalendarID: q.Get("calendar_id"),
		ActorID:    q.Get("actor_id"),
		From:       from,
		To:         to,
		Type:       Type(q.Get("type")),
		Status:     Status(q.Get("status")),
		Text:       q.Get("q"),
		ViewerID:   actorID,
		Offset:     offset,
		Limit:      limit,
	}

	events, total, err := h.service.Query(r.Context(), f)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultQueryLimit
	}
	response.JSONWithMeta(w, http.StatusOK, events, &response.Meta{
		Offset: f.Offset,
		Limit:  min(f.Limit, MaxQueryLimit),
		Total:  total,
	})
}

// Stats handles GET /events/stats
// @Summary      Event statistics
// @Description  Counts for the events the actor organizes or attends
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Success      200 {object} response.APIResponse{data=Stats}
// @Router       /events/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	stats, err := h.service.Stats(r.Context(), actorID, time.Now().UTC())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// Update handles PUT /events/{id}
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Event ID"
// @Param        mode query string false "single, this_instance or entire_series" default(single)
// @Param        request body UpdateEventRequest true "Fields to change"
// @Success      200 {object} response.APIResponse{data=Event}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /events/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	mode := UpdateMode(r.URL.Query().Get("mode"))
	e, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), actorID, mode, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e)
}

// Delete handles DELETE /events/{id}
// @Summary      Delete an event
// @Description  Soft delete. Deleting a series root deletes its instances.
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Event ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), actorID); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// Resume handles POST /events/{id}/resume
// @Summary      Resume event creation
// @Description  Retries the invitation and reminder steps of a partially created event
// @Tags         events
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=Event}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id}/resume [post]
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	e, err := h.service.Resume(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e)
}

func parseTimeParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
