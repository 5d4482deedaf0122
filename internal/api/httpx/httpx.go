package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/validate"
	repo "github.com/etec-programacion-3/biblioteca-backend/internal/repository"
	"github.com/etec-programacion-3/biblioteca-backend/internal/services"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteServiceError translates the service error taxonomy into HTTP
// responses. Anything unrecognized is a 500 and gets logged as such.
func WriteServiceError(w http.ResponseWriter, err error) {
	var verrs validate.Errs
	if errors.As(err, &verrs) {
		WriteError(w, http.StatusBadRequest, "validation_failed", "datos inválidos", verrs)
		return
	}
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		WriteError(w, http.StatusBadRequest, "conflict", conflict.Error(), nil)
		return
	}
	var qerr *services.QueryError
	if errors.As(err, &qerr) {
		WriteError(w, http.StatusBadRequest, "invalid_query", qerr.Error(), nil)
		return
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "recurso no encontrado", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
	case errors.Is(err, services.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, "invalid_token", err.Error(), nil)
	case errors.Is(err, services.ErrAccountInactive):
		WriteError(w, http.StatusForbidden, "account_inactive", err.Error(), nil)
	case errors.Is(err, services.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, services.ErrSelfDelete):
		WriteError(w, http.StatusBadRequest, "self_delete", err.Error(), nil)
	default:
		slog.Error("unhandled service error", "err", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "error interno", nil)
	}
}
