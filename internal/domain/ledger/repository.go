package ledger

import "context"

// Repository is append-only by construction: there is no Save or Delete.
type Repository interface {
	Append(ctx context.Context, entries ...*Entry) error
	List(ctx context.Context, f Filter) ([]*Entry, error)
}
