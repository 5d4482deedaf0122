package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/etec-programacion-3/biblioteca-backend/internal/api/httpx"
	"github.com/etec-programacion-3/biblioteca-backend/internal/api/validate"
	"github.com/etec-programacion-3/biblioteca-backend/internal/services"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler { return &AuthHandler{users: users} }

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"nombre"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "cuerpo inválido", nil)
		return
	}
	u, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password, req.Name)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token implements the password login: form-encoded username and password,
// bearer token on success.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "formulario inválido", nil)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	var errs validate.Errs
	for _, e := range []*validate.ErrField{
		validate.Required("username", username),
		validate.Required("password", password),
	} {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	if len(errs) > 0 {
		httpx.WriteServiceError(w, errs)
		return
	}

	token, expiresAt, err := h.users.Login(r.Context(), username, password)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResp{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	})
}
