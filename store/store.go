package store

import (
	"context"
	"errors"
)

// ErrConflict reports that a transaction kept colliding with concurrent
// writers and the driver's retry budget ran out. Callers may retry the
// whole operation.
var ErrConflict = errors.New("store: transaction conflict")

// Doc is a stored document payload. Values are plain Go types
// (string, bool, float64, int64, []interface{}, map[string]interface{});
// drivers normalize their native representations before handing docs out.
type Doc = map[string]interface{}

// Snapshot pairs a document with its id for query results.
type Snapshot struct {
	ID   string
	Data Doc
}

// Filter is a single-field condition. Op is one of "==", ">=", "<=".
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Query describes equality/range filters on one field, single-field
// ordering and an optional result limit.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Tx is a transaction-scoped handle. All Gets must happen before the first
// write; drivers validate the read set (or rely on the engine's conflict
// detection) at commit. Writes are not visible to Gets in the same
// transaction.
type Tx interface {
	// Get returns (nil, nil) when the document does not exist.
	Get(collection, id string) (Doc, error)
	Set(collection, id string, doc Doc)
	Update(collection, id string, fields Doc)
	Delete(collection, id string)
}

// TransactionalStore is the document-store boundary. RunTransaction executes
// fn atomically: either every buffered write commits, or none do. The driver
// retries fn on transient conflicts; a non-nil error from fn aborts without
// retry and is returned unchanged.
type TransactionalStore interface {
	Get(ctx context.Context, collection, id string) (Doc, error)
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
	Query(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	NewID() string
}
