package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jonnronanmn/movies-api/internal/models"
)

var errBoom = errors.New("boom")

type recordingFeed struct {
	mu     sync.Mutex
	events []models.CommentView
	movies []string
}

func (f *recordingFeed) Publish(movieID string, c models.CommentView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies = append(f.movies, movieID)
	f.events = append(f.events, c)
}

type memLimiter struct {
	max   int
	fails map[string]int
}

func newMemLimiter(n int) *memLimiter { return &memLimiter{max: n, fails: map[string]int{}} }

func (l *memLimiter) Allow(_ context.Context, key string) bool { return l.fails[key] < l.max }
func (l *memLimiter) Fail(_ context.Context, key string) { l.fails[key]++ }
func (l *memLimiter) Reset(_ context.Context, key string) { delete(l.fails, key) }
