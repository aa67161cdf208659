package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jonnronanmn/movies-api/internal/models"
	"github.com/jonnronanmn/movies-api/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type movieFixture struct {
	svc    *MovieService
	movies *memstore.Movies
	users  *memstore.Users
	feed   *recordingFeed
}

func newMovieFixture() *movieFixture {
	f := &movieFixture{movies: memstore.NewMovies(), users: memstore.NewUsers(), feed: &recordingFeed{}}
	f.svc = NewMovieService(f.movies, f.users, f.feed)
	return f
}

func (f *movieFixture) seedMovie(t *testing.T) *models.MovieView {
	t.Helper()
	m, err := f.svc.Create(context.Background(), models.MovieCreateRequest{
		Title:       "Alien",
		Director:    "Ridley Scott",
		Year:        1979,
		Description: "In space no one can hear you scream.",
		Genre:       "sci-fi",
	})
	require.NoError(t, err)
	return m
}

func (f *movieFixture) seedUser(t *testing.T, email string) models.User {
	t.Helper()
	u := models.User{ID: primitive.NewObjectID(), Email: email}
	require.NoError(t, f.users.Insert(context.Background(), &u))
	return u
}

func TestCreateValidates(t *testing.T) {
	f := newMovieFixture()

	_, err := f.svc.Create(context.Background(), models.MovieCreateRequest{Title: "  ", Year: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "year")
	assert.Contains(t, verr.Fields, "director")
	assert.Zero(t, f.movies.Writes())
}

func TestCreateSetsDefaults(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)

	assert.False(t, m.ID.IsZero())
	assert.Equal(t, 1, m.Version)
	assert.NotNil(t, m.Comments)
	assert.Empty(t, m.Comments)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestAddCommentThenList(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)
	u := f.seedUser(t, "a@b.com")
	ctx := context.Background()

	view, err := f.svc.AddComment(ctx, m.ID.Hex(), "  Great movie  ", &models.Identity{UserID: u.ID})
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, 2, view.Version)

	comments, err := f.svc.Comments(ctx, m.ID.Hex())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	c := comments[0]
	assert.Equal(t, "Great movie", c.Comment)
	assert.Equal(t, u.ID, c.UserID)
	assert.False(t, c.CreatedAt.IsZero())
	require.NotNil(t, c.User)
	assert.Equal(t, "a@b.com", c.User.Email)

	require.Len(t, f.feed.events, 1)
	assert.Equal(t, m.ID.Hex(), f.feed.movies[0])
	assert.Equal(t, c.ID, f.feed.events[0].ID)
}

func TestAddCommentPreservesOrder(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)
	who := &models.Identity{UserID: primitive.NewObjectID()}
	ctx := context.Background()

	_, err := f.svc.AddComment(ctx, m.ID.Hex(), "C1", who)
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, m.ID.Hex(), "C2", who)
	require.NoError(t, err)

	comments, err := f.svc.Comments(ctx, m.ID.Hex())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "C1", comments[0].Comment)
	assert.Equal(t, "C2", comments[1].Comment)
}

func TestAddCommentRejectsBlank(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)
	writes := f.movies.Writes()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := f.svc.AddComment(context.Background(), m.ID.Hex(), text, &models.Identity{UserID: primitive.NewObjectID()})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	}

	assert.Equal(t, writes, f.movies.Writes())
	stored, _ := f.movies.FindByID(context.Background(), m.ID)
	assert.Empty(t, stored.Comments)
	assert.Empty(t, f.feed.events)
}

func TestAddCommentMissingMovie(t *testing.T) {
	f := newMovieFixture()
	f.seedMovie(t)
	writes := f.movies.Writes()

	_, err := f.svc.AddComment(context.Background(), primitive.NewObjectID().Hex(), "hello", &models.Identity{UserID: primitive.NewObjectID()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, writes, f.movies.Writes())
	assert.Empty(t, f.feed.events)
}

func TestAddCommentInvalidIDAndIdentity(t *testing.T) {
	f := newMovieFixture()

	_, err := f.svc.AddComment(context.Background(), "not-an-id", "hello", &models.Identity{UserID: primitive.NewObjectID()})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = f.svc.AddComment(context.Background(), primitive.NewObjectID().Hex(), "hello", nil)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestUnresolvedAuthorKeepsRawID(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)
	ghost := primitive.NewObjectID()

	_, err := f.svc.AddComment(context.Background(), m.ID.Hex(), "still here", &models.Identity{UserID: ghost})
	require.NoError(t, err)

	comments, err := f.svc.Comments(context.Background(), m.ID.Hex())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, ghost, comments[0].UserID)
	assert.Nil(t, comments[0].User)
}

func TestAuthorLookupFailureDegrades(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)
	u := f.seedUser(t, "a@b.com")
	_, err := f.svc.AddComment(context.Background(), m.ID.Hex(), "hi", &models.Identity{UserID: u.ID})
	require.NoError(t, err)

	f.users.LookupErr = errBoom
	got, err := f.svc.Get(context.Background(), m.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, u.ID, got.Comments[0].UserID)
	assert.Nil(t, got.Comments[0].User)
}

func TestUpdateAllowListOnly(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)
	title := "Aliens"

	// el JSON {"title":"Aliens","foo":"bar"} decodifica solo title
	got, err := f.svc.Update(context.Background(), m.ID.Hex(), models.MovieUpdateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Aliens", got.Title)
	assert.Equal(t, m.Director, got.Director)
	assert.Equal(t, m.Year, got.Year)
	assert.Equal(t, m.Description, got.Description)
	assert.Equal(t, m.Genre, got.Genre)
}

func TestUpdateWithNoAllowedFieldsIsNoop(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)
	writes := f.movies.Writes()

	got, err := f.svc.Update(context.Background(), m.ID.Hex(), models.MovieUpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, m.Title, got.Title)
	assert.Equal(t, m.Version, got.Version)
	assert.Equal(t, writes, f.movies.Writes())
}

func TestUpdateRejectsEmptyValues(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)
	blank := "  "
	zero := 0

	_, err := f.svc.Update(context.Background(), m.ID.Hex(), models.MovieUpdateRequest{Genre: &blank})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = f.svc.Update(context.Background(), m.ID.Hex(), models.MovieUpdateRequest{Year: &zero})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestUpdateMissingMovie(t *testing.T) {
	f := newMovieFixture()
	title := "x"
	_, err := f.svc.Update(context.Background(), primitive.NewObjectID().Hex(), models.MovieUpdateRequest{Title: &title})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDelete(t *testing.T) {
	f := newMovieFixture()
	m := f.seedMovie(t)

	require.NoError(t, f.svc.Delete(context.Background(), m.ID.Hex()))

	err := f.svc.Delete(context.Background(), m.ID.Hex())
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.svc.Get(context.Background(), m.ID.Hex())
	assert.True(t, errors.Is(err, ErrNotFound))

	err = f.svc.Delete(context.Background(), "zzz")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestListEnrichesAllMovies(t *testing.T) {
	f := newMovieFixture()
	a := f.seedMovie(t)
	b := f.seedMovie(t)
	u := f.seedUser(t, "c@d.com")
	who := &models.Identity{UserID: u.ID}

	_, err := f.svc.AddComment(context.Background(), a.ID.Hex(), "one", who)
	require.NoError(t, err)
	_, err = f.svc.AddComment(context.Background(), b.ID.Hex(), "two", who)
	require.NoError(t, err)

	movies, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	for _, m := range movies {
		require.Len(t, m.Comments, 1)
		require.NotNil(t, m.Comments[0].User)
		assert.Equal(t, "c@d.com", m.Comments[0].User.Email)
	}
}
