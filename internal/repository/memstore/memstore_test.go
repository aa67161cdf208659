package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/jonnronanmn/movies-api/internal/models"
	"github.com/jonnronanmn/movies-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMoviesKeepInsertOrderAndCopies(t *testing.T) {
	s := NewMovies()
	ctx := context.Background()
	a := &models.Movie{Title: "A"}
	b := &models.Movie{Title: "B"}
	require.NoError(t, s.Insert(ctx, a))
	require.NoError(t, s.Insert(ctx, b))
	assert.False(t, a.ID.IsZero())

	got, err := s.FindByID(ctx, a.ID)
	require.NoError(t, err)
	got.Title = "changed"

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "B", list[1].Title)
	assert.Equal(t, 2, s.Writes())
}

func TestMoviesAbsentIsNil(t *testing.T) {
	s := NewMovies()
	ctx := context.Background()
	id := primitive.NewObjectID()

	m, err := s.PushComment(ctx, id, models.Comment{Comment: "x"})
	require.NoError(t, err)
	assert.Nil(t, m)

	deleted, err := s.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Zero(t, s.Writes())
}

func TestUsersDuplicateEmail(t *testing.T) {
	s := NewUsers()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, &models.User{Email: "a@b.com"}))

	err := s.Insert(ctx, &models.User{Email: "a@b.com"})
	assert.True(t, errors.Is(err, repository.ErrDuplicateKey))
}

func TestUsersFindByEmailIgnoresCase(t *testing.T) {
	s := NewUsers()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, &models.User{Email: "Legacy@B.com"}))

	u, err := s.FindByEmail(ctx, "legacy@b.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Legacy@B.com", u.Email)
}
