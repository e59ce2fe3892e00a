package ledgermock

import (
	"context"
	"sync"

	domain "debtsify-backend/internal/domain/ledger"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// With AppendFn unset, appended entries are recorded in Appended.
type Repo struct {
	AppendFn func(ctx context.Context, entries ...*domain.Entry) error
	ListFn   func(ctx context.Context, f domain.Filter) ([]*domain.Entry, error)

	mu       sync.Mutex
	Appended []*domain.Entry
}

func (m *Repo) Append(ctx context.Context, entries ...*domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, entries...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appended = append(m.Appended, entries...)
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]*domain.Entry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
