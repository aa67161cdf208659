package service

import (
	"context"
	"strings"
	"time"

	"github.com/jonnronanmn/movies-api/internal/models"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MovieStore interface {
	Insert(ctx context.Context, m *models.Movie) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Movie, error)
	List(ctx context.Context) ([]models.Movie, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*models.Movie, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	PushComment(ctx context.Context, id primitive.ObjectID, c models.Comment) (*models.Movie, error)
}

// AuthorLookup resuelve los autores de los comentarios. Los ids que no existen no aparecen en el mapa.
type AuthorLookup interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
}

// CommentPublisher recibe cada comentario una vez guardado.
type CommentPublisher interface {
	Publish(movieID string, c models.CommentView)
}

type MovieService struct {
	movies MovieStore
	users  AuthorLookup
	feed   CommentPublisher
	now    func() time.Time
}

func NewMovieService(movies MovieStore, users AuthorLookup, feed CommentPublisher) *MovieService {
	return &MovieService{
		movies: movies,
		users:  users,
		feed:   feed,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ====== ADMIN: crear / actualizar / borrar ======

func (s *MovieService) Create(ctx context.Context, req models.MovieCreateRequest) (*models.MovieView, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Director = strings.TrimSpace(req.Director)
	req.Description = strings.TrimSpace(req.Description)
	req.Genre = strings.TrimSpace(req.Genre)
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	now := s.now()
	m := &models.Movie{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Director:    req.Director,
		Year:        req.Year,
		Description: req.Description,
		Genre:       req.Genre,
		Comments:    []models.Comment{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.movies.Insert(ctx, m); err != nil {
		return nil, storeFailure("insert movie", err)
	}
	return s.view(ctx, m), nil
}

// Update aplica solo los campos permitidos que vienen en el request;
// si no viene ninguno devuelve la película tal cual.
func (s *MovieService) Update(ctx context.Context, rawID string, req models.MovieUpdateRequest) (*models.MovieView, error) {
	id, err := parseMovieID(rawID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	for name, val := range map[string]*string{
		"title":       req.Title,
		"director":    req.Director,
		"description": req.Description,
		"genre":       req.Genre,
	} {
		if val == nil {
			continue
		}
		v := strings.TrimSpace(*val)
		if v == "" {
			return nil, invalid(name + " cannot be empty")
		}
		fields[name] = v
	}
	if req.Year != nil {
		if *req.Year <= 0 {
			return nil, invalid("year must be greater than 0")
		}
		fields["year"] = *req.Year
	}

	var m *models.Movie
	if len(fields) == 0 {
		m, err = s.movies.FindByID(ctx, id)
	} else {
		m, err = s.movies.Update(ctx, id, fields)
	}
	if err != nil {
		return nil, storeFailure("update movie", err)
	}
	if m == nil {
		return nil, notFound("movie not found")
	}
	return s.view(ctx, m), nil
}

func (s *MovieService) Delete(ctx context.Context, rawID string) error {
	id, err := parseMovieID(rawID)
	if err != nil {
		return err
	}
	deleted, err := s.movies.DeleteByID(ctx, id)
	if err != nil {
		return storeFailure("delete movie", err)
	}
	if !deleted {
		return notFound("movie not found or already deleted")
	}
	return nil
}

// ====== lectura (usuarios autenticados) ======

func (s *MovieService) List(ctx context.Context) ([]models.MovieView, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, storeFailure("list movies", err)
	}

	var all []models.Comment
	for _, m := range movies {
		all = append(all, m.Comments...)
	}
	authors := s.authors(ctx, all)

	out := make([]models.MovieView, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieView(&movies[i], authors))
	}
	return out, nil
}

func (s *MovieService) Get(ctx context.Context, rawID string) (*models.MovieView, error) {
	m, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, m), nil
}

func (s *MovieService) Comments(ctx context.Context, rawID string) ([]models.CommentView, error) {
	m, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return toCommentViews(m.Comments, s.authors(ctx, m.Comments)), nil
}

// ====== comentarios ======

// AddComment valida el texto y el id antes de tocar la base, y agrega el
// comentario con un $push atómico. Devuelve la película ya persistida.
func (s *MovieService) AddComment(ctx context.Context, rawID, text string, who *models.Identity) (*models.MovieView, error) {
	if who == nil {
		return nil, unauthenticated("no identity in request")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("comment cannot be empty")
	}
	id, err := parseMovieID(rawID)
	if err != nil {
		return nil, err
	}

	c := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    who.UserID,
		Comment:   text,
		CreatedAt: s.now(),
	}
	m, err := s.movies.PushComment(ctx, id, c)
	if err != nil {
		return nil, storeFailure("push comment", err)
	}
	if m == nil {
		return nil, notFound("movie not found")
	}

	v := s.view(ctx, m)
	if s.feed != nil {
		for _, cv := range v.Comments {
			if cv.ID == c.ID {
				s.feed.Publish(m.ID.Hex(), cv)
				break
			}
		}
	}
	return v, nil
}

func (s *MovieService) find(ctx context.Context, rawID string) (*models.Movie, error) {
	id, err := parseMovieID(rawID)
	if err != nil {
		return nil, err
	}
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure("find movie", err)
	}
	if m == nil {
		return nil, notFound("movie not found")
	}
	return m, nil
}

func (s *MovieService) view(ctx context.Context, m *models.Movie) *models.MovieView {
	v := toMovieView(m, s.authors(ctx, m.Comments))
	return &v
}

// authors resuelve los autores de los comentarios en una sola consulta. Si la
// consulta falla se devuelven solo los ids crudos.
func (s *MovieService) authors(ctx context.Context, comments []models.Comment) map[primitive.ObjectID]models.UserSummary {
	if s.users == nil || len(comments) == 0 {
		return nil
	}
	seen := make(map[primitive.ObjectID]struct{}, len(comments))
	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.UserID]; ok {
			continue
		}
		seen[c.UserID] = struct{}{}
		ids = append(ids, c.UserID)
	}

	found, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		log.WithError(err).WithField("component", "movies").Warn("could not resolve comment authors")
		return nil
	}
	return found
}

func parseMovieID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, invalid("invalid movie id")
	}
	return id, nil
}

func toMovieView(m *models.Movie, authors map[primitive.ObjectID]models.UserSummary) models.MovieView {
	return models.MovieView{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Year:        m.Year,
		Description: m.Description,
		Genre:       m.Genre,
		Comments:    toCommentViews(m.Comments, authors),
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toCommentViews(comments []models.Comment, authors map[primitive.ObjectID]models.UserSummary) []models.CommentView {
	out := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		cv := models.CommentView{
			ID:        c.ID,
			UserID:    c.UserID,
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
		}
		if u, ok := authors[c.UserID]; ok {
			cv.User = &u
		}
		out = append(out, cv)
	}
	return out
}
