package handler

import (
	"net/http"

	"github.com/edvin/kitcatalog/internal/api/middleware"
	"github.com/edvin/kitcatalog/internal/api/request"
	"github.com/edvin/kitcatalog/internal/api/response"
	"github.com/edvin/kitcatalog/internal/core"
)

type Auth struct {
	svc   *core.AuthService
	users *core.UserService
}

func NewAuth(svc *core.AuthService, users *core.UserService) *Auth {
	return &Auth{svc: svc, users: users}
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req request.SignIn
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUp
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.svc.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

// Me returns the signed-in user.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		response.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, user)
}
