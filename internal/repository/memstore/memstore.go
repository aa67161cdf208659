// Package memstore implementa los stores de películas y usuarios en memoria.
// Lo usan los tests de service y handler en lugar de Mongo.
package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonnronanmn/movies-api/internal/models"
	"github.com/jonnronanmn/movies-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movies guarda las películas en orden de inserción. ListErr hace fallar List.
type Movies struct {
	mu      sync.Mutex
	byID    map[primitive.ObjectID]models.Movie
	order   []primitive.ObjectID
	writes  int
	ListErr error
}

func NewMovies() *Movies {
	return &Movies{byID: map[primitive.ObjectID]models.Movie{}}
}

func cloneMovie(m models.Movie) *models.Movie {
	m.Comments = append([]models.Comment(nil), m.Comments...)
	return &m
}

// Writes cuenta las escrituras que modificaron algo.
func (s *Movies) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Movies) Insert(_ context.Context, m *models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	s.byID[m.ID] = *cloneMovie(*m)
	s.order = append(s.order, m.ID)
	s.writes++
	return nil
}

func (s *Movies) FindByID(_ context.Context, id primitive.ObjectID) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneMovie(m), nil
}

func (s *Movies) List(_ context.Context) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := []models.Movie{}
	for _, id := range s.order {
		if m, ok := s.byID[id]; ok {
			out = append(out, *cloneMovie(m))
		}
	}
	return out, nil
}

func (s *Movies) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			m.Title = v.(string)
		case "director":
			m.Director = v.(string)
		case "description":
			m.Description = v.(string)
		case "genre":
			m.Genre = v.(string)
		case "year":
			m.Year = v.(int)
		default:
			return nil, fmt.Errorf("unexpected field %q", k)
		}
	}
	m.Version++
	m.UpdatedAt = time.Now().UTC()
	s.byID[id] = m
	s.writes++
	return cloneMovie(m), nil
}

func (s *Movies) DeleteByID(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	s.writes++
	return true, nil
}

func (s *Movies) PushComment(_ context.Context, id primitive.ObjectID, c models.Comment) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	m.Comments = append(append([]models.Comment(nil), m.Comments...), c)
	m.Version++
	m.UpdatedAt = c.CreatedAt
	s.byID[id] = m
	s.writes++
	return cloneMovie(m), nil
}

// Users imita el índice único de email. LookupErr hace fallar FindByIDs.
type Users struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]models.User
	LookupErr error
}

func NewUsers() *Users {
	return &Users{byID: map[primitive.ObjectID]models.User{}}
}

func (s *Users) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateKey
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.byID[u.ID] = *u
	return nil
}

// FindByEmail compara sin distinguir mayúsculas, igual que la collation de Mongo.
func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Users) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := s.byID[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}
