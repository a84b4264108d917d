package availability

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/calendar/internal/calendar"
	"github.com/fkhayef/calendar/pkg/middleware"
	"github.com/fkhayef/calendar/pkg/response"
)

// CheckRequest asks whether one actor is free. ActorID defaults to the caller.
type CheckRequest struct {
	ActorID        string    `json:"actor_id,omitempty"`
	Start          time.Time `json:"start" validate:"required"`
	End            time.Time `json:"end" validate:"required"`
	ExcludeEventID string    `json:"exclude_event_id,omitempty"`
}

// SlotsRequest asks for windows where every listed actor is free
type SlotsRequest struct {
	ActorIDs        []string               `json:"actor_ids" validate:"required"`
	DurationMinutes int                    `json:"duration_minutes" validate:"required,gt=0"`
	RangeStart      time.Time              `json:"range_start" validate:"required"`
	RangeEnd        time.Time              `json:"range_end" validate:"required"`
	WorkingHours    *calendar.WorkingHours `json:"working_hours,omitempty"`
	StepMinutes     int                    `json:"step_minutes,omitempty"`
	MaxSlots        int                    `json:"max_slots,omitempty"`
}

// Handler handles HTTP requests for availability operations
type Handler struct {
	engine Engine
}

// NewHandler creates a new availability handler
func NewHandler(engine Engine) *Handler {
	return &Handler{engine: engine}
}

// Routes returns the router for availability endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/check", h.Check)
	r.Post("/slots", h.Slots)

	return r
}

// Check handles POST /availability/check
// @Summary      Check availability
// @Description  Lists the actor's events overlapping [start, end)
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        request body CheckRequest true "Availability check"
// @Success      200 {object} response.APIResponse{data=Result}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /availability/check [post]
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.ActorID == "" {
		req.ActorID, _ = middleware.GetActorID(r.Context())
	}

	result, err := h.engine.CheckAvailability(r.Context(), req.ActorID, req.Start, req.End, req.ExcludeEventID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Slots handles POST /availability/slots
// @Summary      Find available slots
// @Description  Windows of the requested length inside working hours where every actor is free
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        request body SlotsRequest true "Slot search"
// @Success      200 {object} response.APIResponse{data=[]Slot}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /availability/slots [post]
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	var req SlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	q := SlotQuery{
		ActorIDs:   req.ActorIDs,
		Duration:   time.Duration(req.DurationMinutes) * time.Minute,
		RangeStart: req.RangeStart,
		RangeEnd:   req.RangeEnd,
		Step:       time.Duration(req.StepMinutes) * time.Minute,
		MaxSlots:   req.MaxSlots,
	}
	if req.WorkingHours != nil {
		q.WorkingHours = *req.WorkingHours
	}

	slots, err := h.engine.FindAvailableSlots(r.Context(), q)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, slots)
}
