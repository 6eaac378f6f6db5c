package report

import (
	"context"
	"sync"
)

type fakeSource struct {
	mu      sync.Mutex
	queries []Query
	results func(Query) ([]WorkItem, error)
	who     string
	err     error
}

func (f *fakeSource) Name() string { return "Fake" }

func (f *fakeSource) Search(ctx context.Context, q Query) ([]WorkItem, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.results == nil {
		return nil, nil
	}
	return f.results(q)
}

func (f *fakeSource) HealthCheck(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.who, nil
}

var _ WorkItemSource = (*fakeSource)(nil)
