package handler

import (
	"net/http"

	"github.com/jonnronanmn/movies-api/internal/models"
	"github.com/jonnronanmn/movies-api/internal/service"

	"github.com/go-chi/chi/v5"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(s *service.MovieService) *MovieHandler { return &MovieHandler{svc: s} }

type movieResponse struct {
	Movie *models.MovieView `json:"movie"`
}

type moviesResponse struct {
	Movies []models.MovieView `json:"movies"`
}

type movieMessageResponse struct {
	Message string            `json:"message"`
	Movie   *models.MovieView `json:"movie"`
}

type commentsResponse struct {
	Comments []models.CommentView `json:"comments"`
}

// ====== ADMIN: crear / actualizar / borrar películas ======

// @Summary Crear nueva película
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.MovieCreateRequest true "Datos de la película"
// @Success 201 {object} models.MovieView
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /movies/addMovie [post]
func (h *MovieHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var req models.MovieCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// @Summary Actualizar película
// @Description Solo se aplican title, director, year, description y genre; el resto se ignora.
// @Tags movies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param movieId path string true "movieId"
// @Param body body models.MovieUpdateRequest true "Campos a actualizar"
// @Success 200 {object} movieMessageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/updateMovie/{movieId} [patch]
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req models.MovieUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.svc.Update(r.Context(), chi.URLParam(r, "movieId"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movieMessageResponse{Message: "Movie updated successfully", Movie: m})
}

// @Summary Borrar película
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Param movieId path string true "movieId"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/deleteMovie/{movieId} [delete]
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "movieId")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Movie deleted successfully"})
}

// @Summary Listar películas
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Success 200 {object} moviesResponse
// @Router /movies/getMovies [get]
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, moviesResponse{Movies: movies})
}

// @Summary Obtener película
// @Tags movies
// @Security BearerAuth
// @Produce json
// @Param movieId path string true "movieId"
// @Success 200 {object} movieResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/getMovie/{movieId} [get]
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movieResponse{Movie: m})
}

// ====== comentarios ======

// @Summary Agregar comentario
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param movieId path string true "movieId"
// @Param body body models.CommentRequest true "comentario"
// @Success 200 {object} movieMessageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/addComment/{movieId} [patch]
func (h *MovieHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req models.CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "movieId"), req.Comment, IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movieMessageResponse{Message: "Comment added successfully", Movie: m})
}

// @Summary Listar comentarios de una película
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param movieId path string true "movieId"
// @Success 200 {object} commentsResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/getComments/{movieId} [get]
func (h *MovieHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.Comments(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commentsResponse{Comments: comments})
}
