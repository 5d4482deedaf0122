package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/httpx"
	"github.com/etec-programacion-3/biblioteca-backend/internal/models"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
	"github.com/etec-programacion-3/biblioteca-backend/internal/services"
)

type BookHandler struct {
	svc *services.BookService
}

func NewBookHandler(svc *services.BookService) *BookHandler { return &BookHandler{svc: svc} }

// parseBookFilter turns the query string into a filter. Malformed numbers
// and unknown sort directions are rejected here; range and allow-list checks
// live in the service.
func parseBookFilter(q url.Values) (models.BookFilter, error) {
	f := models.BookFilter{
		Title:    q.Get("titulo"),
		Author:   q.Get("autor"),
		Category: q.Get("categoria"),
		Status:   q.Get("estado"),
		SortBy:   q.Get("ordenar_por"),
		Page:     1,
		PerPage:  services.DefaultPerPage,
	}
	switch strings.ToLower(q.Get("orden")) {
	case "", "asc":
	case "desc":
		f.Desc = true
	default:
		return f, &services.QueryError{Msg: "orden debe ser asc o desc"}
	}
	if v := q.Get("pagina"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, &services.QueryError{Msg: "pagina debe ser un entero >= 1"}
		}
		f.Page = n
	}
	if v := q.Get("items_por_pagina"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, &services.QueryError{Msg: "items_por_pagina debe ser un entero >= 1"}
		}
		f.PerPage = n
	}
	return f, nil
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseBookFilter(r.URL.Query())
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	books, err := h.svc.List(r.Context(), f)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.WriteServiceError(w, repo.ErrNotFound)
		return
	}
	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "cuerpo inválido", nil)
		return
	}
	b, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.WriteServiceError(w, repo.ErrNotFound)
		return
	}
	var upd models.BookUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "cuerpo inválido", nil)
		return
	}
	b, err := h.svc.Update(r.Context(), id, upd)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.WriteServiceError(w, repo.ErrNotFound)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
