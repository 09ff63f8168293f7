package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"timesheet-management/internal/auth"
	"timesheet-management/internal/transport"
	"timesheet-management/pkg/logger"
)

type ServiceAPI interface {
	Create(actor *auth.User, dto *DTO) (*User, error)
	FindByID(actor *auth.User, id int64) (*User, error)
	FindAll(actor *auth.User, filters ListFilters) ([]*User, error)
	ParseFilters(query map[string]string) ListFilters
	Update(actor *auth.User, id int64, dto *DTO) (*User, error)
	Delete(actor *auth.User, id int64) (bool, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto DTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if appErr := dto.ValidateForCreate(); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	created, err := h.Service.Create(actor, &dto)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"data":    created,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	found, err := h.Service.FindByID(actor, id)
	if err != nil {
		h.Logger.Error("GetUser: service error", "error", err, "user_id", id, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	if found == nil {
		h.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": found})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters := h.Service.ParseFilters(singleValueQuery(r))
	users, err := h.Service.FindAll(actor, filters)
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": users})
}

// Update handles POST /users/update; the target id travels in the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto DTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.ID == nil {
		h.WriteError(w, http.StatusUnprocessableEntity, "id is required")
		return
	}
	if appErr := dto.ValidateForUpdate(); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	updated, err := h.Service.Update(actor, *dto.ID, &dto)
	if err != nil {
		h.Logger.Error("UpdateUser: service error", "error", err, "user_id", *dto.ID, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	if updated == nil {
		h.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"data":    updated,
	})
}

// Delete handles POST /users/delete; the target id travels in the body.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		ID *int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == nil {
		h.WriteError(w, http.StatusUnprocessableEntity, "id is required")
		return
	}

	deleted, err := h.Service.Delete(actor, *body.ID)
	if err != nil {
		h.Logger.Error("DeleteUser: service error", "error", err, "user_id", *body.ID, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	if !deleted {
		h.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// singleValueQuery flattens query params to their first value.
func singleValueQuery(r *http.Request) map[string]string {
	out := map[string]string{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			out[key] = values[0]
		}
	}
	return out
}
