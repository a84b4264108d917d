package reminder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/calendar/pkg/response"
)

// Handler exposes the due queue to external delivery workers
type Handler struct {
	scheduler *Scheduler
}

// NewHandler creates a new reminder handler
func NewHandler(scheduler *Scheduler) *Handler {
	return &Handler{scheduler: scheduler}
}

// Routes returns the router for reminder endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/due", h.Due)
	r.Post("/{id}/sent", h.MarkSent)

	return r
}

// Due handles GET /reminders/due
// @Summary      List due reminders
// @Description  Unsent notifications whose fire time has passed, oldest first
// @Tags         reminders
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Success      200 {object} response.APIResponse{data=[]Notification}
// @Router       /reminders/due [get]
func (h *Handler) Due(w http.ResponseWriter, r *http.Request) {
	due, err := h.scheduler.Due(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, due, &response.Meta{Total: len(due)})
}

// MarkSent handles POST /reminders/{id}/sent
// @Summary      Mark a reminder as sent
// @Description  Idempotent: marking an already sent reminder succeeds
// @Tags         reminders
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Notification ID"
// @Success      200 {object} response.APIResponse{data=Notification}
// @Failure      404 {object} response.APIResponse
// @Router       /reminders/{id}/sent [post]
func (h *Handler) MarkSent(w http.ResponseWriter, r *http.Request) {
	n, err := h.scheduler.MarkSent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, n)
}
