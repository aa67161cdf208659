package handler

import (
	"net/http"

	"github.com/jonnronanmn/movies-api/internal/models"
	"github.com/jonnronanmn/movies-api/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

type loginResponse struct {
	Access string `json:"access"`
}

type detailsResponse struct {
	User models.UserSummary `json:"user"`
}

// @Summary Registrar usuario
// @Description Crea un usuario nuevo (nunca admin)
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "datos"
// @Success 201 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.svc.Register(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Registered successfully"})
}

// @Summary Iniciar sesión
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Access: token})
}

// @Summary Datos del usuario logueado
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} detailsResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /users/details [get]
func (h *AuthHandler) Details(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Details(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detailsResponse{User: *u})
}
