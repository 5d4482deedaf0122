package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/httpx"
	"github.com/etec-programacion-3/biblioteca-backend/internal/middleware"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
	"github.com/etec-programacion-3/biblioteca-backend/internal/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUser(r.Context())
	var upd models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "cuerpo inválido", nil)
		return
	}
	updated, err := h.svc.UpdateSelf(r.Context(), u, upd)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	users, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

// Get allows a user to fetch themselves; anyone else requires admin.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.WriteServiceError(w, repo.ErrNotFound)
		return
	}
	actor, _ := middleware.CurrentUser(r.Context())
	if actor.ID != id && actor.Role != models.RoleAdmin {
		httpx.WriteServiceError(w, services.ErrForbidden)
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.WriteServiceError(w, repo.ErrNotFound)
		return
	}
	var upd models.UserAdminUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "cuerpo inválido", nil)
		return
	}
	actor, _ := middleware.CurrentUser(r.Context())
	u, err := h.svc.AdminUpdate(r.Context(), actor, id, upd)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.WriteServiceError(w, repo.ErrNotFound)
		return
	}
	actor, _ := middleware.CurrentUser(r.Context())
	if err := h.svc.Delete(r.Context(), actor, id); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
