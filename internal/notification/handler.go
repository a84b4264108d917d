package notification

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/calendar/pkg/middleware"
	"github.com/fkhayef/calendar/pkg/response"
)

// Handler handles HTTP requests for the in-app inbox
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/unread-count", h.GetUnreadCount)
	r.Post("/{id}/read", h.MarkAsRead)
	r.Post("/read-all", h.MarkAllAsRead)

	return r
}

// List handles GET /notifications
// @Summary      List my notifications
// @Description  Newest first. Reminders on the in_app channel and invitation activity land here.
// @Tags         notifications
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        unread_only query bool false "Only unread notifications"
// @Param        offset query int false "Page offset"
// @Param        limit query int false "Page size (max 100)"
// @Success      200 {object} response.APIResponse{data=[]Notification}
// @Router       /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	unreadOnly, _ := strconv.ParseBool(q.Get("unread_only"))

	notifications, total, err := h.service.ListByRecipientID(r.Context(), actorID, offset, limit, unreadOnly)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if limit < 1 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	response.JSONWithMeta(w, http.StatusOK, notifications, &response.Meta{Offset: offset, Limit: limit, Total: total})
}

// GetUnreadCount handles GET /notifications/unread-count
// @Summary      Count my unread notifications
// @Tags         notifications
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Success      200 {object} response.APIResponse
// @Router       /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	count, err := h.service.GetUnreadCount(r.Context(), actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

// MarkAsRead handles POST /notifications/{id}/read
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Notification ID"
// @Success      200 {object} response.APIResponse{data=Notification}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /notifications/{id}/read [post]
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	n, err := h.service.MarkAsRead(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, n)
}

// MarkAllAsRead handles POST /notifications/read-all
// @Summary      Mark all my notifications as read
// @Tags         notifications
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Success      200 {object} response.APIResponse
// @Router       /notifications/read-all [post]
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	count, err := h.service.MarkAllAsRead(r.Context(), actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]int{"marked": count})
}
