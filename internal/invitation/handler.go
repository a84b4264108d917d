package invitation

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/calendar/pkg/middleware"
	"github.com/fkhayef/calendar/pkg/response"
)

// Handler handles HTTP requests for invitation operations
type Handler struct {
	manager *Manager
}

// NewHandler creates a new invitation handler
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// Routes returns the router for invitation endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/{id}/respond", h.Respond)

	return r
}

// List handles GET /invitations
// @Summary      List my invitations
// @Tags         invitations
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        status query string false "Filter by status"
// @Success      200 {object} response.APIResponse{data=[]Invitation}
// @Failure      400 {object} response.APIResponse
// @Router       /invitations [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())
	status := Status(r.URL.Query().Get("status"))

	invitations, err := h.manager.ListForInvitee(r.Context(), actorID, status)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSONWithMeta(w, http.StatusOK, invitations, &response.Meta{Total: len(invitations)})
}

// Respond handles POST /invitations/{id}/respond
// @Summary      Respond to an invitation
// @Description  Accept, decline or tentatively accept. Responding again overwrites the answer.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        X-User-ID header string true "Actor identity"
// @Param        id path string true "Invitation ID"
// @Param        request body RespondRequest true "Response"
// @Success      200 {object} response.APIResponse{data=Invitation}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /invitations/{id}/respond [post]
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetActorID(r.Context())

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	inv, err := h.manager.Respond(r.Context(), chi.URLParam(r, "id"), req.Response, actorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, inv)
}
