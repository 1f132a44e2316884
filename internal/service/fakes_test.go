package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/repository"
)

// fakeCompleter records calls and replies with a fixed text or error.
type fakeCompleter struct {
	reply string
	err   error
	delay time.Duration

	calls atomic.Int32
	mu    sync.Mutex
	last  CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) lastRequest() CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

var errQuota = domain.NewRemoteServiceError("chat completion", errors.New("status 429: quota exceeded"))

// fixedDay is the simulated current day of the service tests.
var fixedDay = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedDay }

type fakeEmbedder struct {
	err   error
	calls atomic.Int32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

type fakeVectorStore struct {
	mu       sync.Mutex
	points   map[string]*repository.InsightPayload
	filters  *repository.VectorSearchFilters
	limit    int
	searchFn func() []repository.VectorSearchResult
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{points: make(map[string]*repository.InsightPayload)}
}

func (f *fakeVectorStore) Upsert(_ context.Context, id string, _ []float32, payload *repository.InsightPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[id] = payload
	return nil
}

func (f *fakeVectorStore) DeleteDay(_ context.Context, day string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.points {
		if p.Day == day {
			delete(f.points, id)
		}
	}
	return nil
}

func (f *fakeVectorStore) Search(_ context.Context, _ []float32, limit int, filters *repository.VectorSearchFilters) ([]repository.VectorSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = filters
	f.limit = limit
	if f.searchFn != nil {
		return f.searchFn(), nil
	}
	return nil, nil
}
