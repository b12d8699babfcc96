package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"backend/store"
)

// Store is an in-memory TransactionalStore with optimistic concurrency:
// transactions record the version of every document they read and commit
// only if none of those versions moved in the meantime. Conflicted attempts
// are retried a bounded number of times before ErrConflict surfaces.
type Store struct {
	mu       sync.Mutex
	data     map[string]store.Doc // collection/id -> document
	versions map[string]uint64    // survives deletes so stale reads are caught
}

const maxAttempts = 5

func New() *Store {
	return &Store{
		data:     make(map[string]store.Doc),
		versions: make(map[string]uint64),
	}
}

func key(collection, id string) string { return collection + "/" + id }

func (s *Store) Get(ctx context.Context, collection, id string) (store.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.data[key(collection, id)]
	if !ok {
		return nil, nil
	}
	return copyDoc(doc), nil
}

func (s *Store) NewID() string { return uuid.NewString() }

type writeOp struct {
	kind string // "set", "update", "delete"
	key  string
	doc  store.Doc
}

type memTx struct {
	store  *Store
	reads  map[string]uint64
	writes []writeOp
}

func (t *memTx) Get(collection, id string) (store.Doc, error) {
	k := key(collection, id)
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.reads[k] = t.store.versions[k]
	doc, ok := t.store.data[k]
	if !ok {
		return nil, nil
	}
	return copyDoc(doc), nil
}

func (t *memTx) Set(collection, id string, doc store.Doc) {
	t.writes = append(t.writes, writeOp{kind: "set", key: key(collection, id), doc: copyDoc(doc)})
}

func (t *memTx) Update(collection, id string, fields store.Doc) {
	t.writes = append(t.writes, writeOp{kind: "update", key: key(collection, id), doc: copyDoc(fields)})
}

func (t *memTx) Delete(collection, id string) {
	t.writes = append(t.writes, writeOp{kind: "delete", key: key(collection, id)})
}

func (s *Store) RunTransaction(ctx context.Context, fn func(tx store.Tx) error) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tx := &memTx{store: s, reads: make(map[string]uint64)}
		if err := fn(tx); err != nil {
			return err
		}
		if s.commit(tx) {
			return nil
		}
	}
	return store.ErrConflict
}

// commit applies the buffered writes if every read version is unchanged.
func (s *Store) commit(tx *memTx) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range tx.reads {
		if s.versions[k] != v {
			return false
		}
	}
	for _, w := range tx.writes {
		switch w.kind {
		case "set":
			s.data[w.key] = w.doc
		case "update":
			existing, ok := s.data[w.key]
			if !ok {
				existing = make(store.Doc)
				s.data[w.key] = existing
			}
			for f, val := range w.doc {
				existing[f] = val
			}
		case "delete":
			delete(s.data, w.key)
		}
		s.versions[w.key]++
	}
	return true
}

func (s *Store) Query(ctx context.Context, collection string, q store.Query) ([]store.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := collection + "/"
	var out []store.Snapshot
	for k, doc := range s.data {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if !matches(doc, q.Filters) {
			continue
		}
		out = append(out, store.Snapshot{ID: strings.TrimPrefix(k, prefix), Data: copyDoc(doc)})
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			c := compare(out[i].Data[q.OrderBy], out[j].Data[q.OrderBy])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(doc store.Doc, filters []store.Filter) bool {
	for _, f := range filters {
		c := compare(doc[f.Field], f.Value)
		switch f.Op {
		case "==":
			if c != 0 {
				return false
			}
		case ">=":
			if c < 0 {
				return false
			}
		case "<=":
			if c > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compare orders mixed numeric types and strings; non-comparable values
// sort as equal.
func compare(a, b interface{}) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs)
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func copyDoc(doc store.Doc) store.Doc {
	out := make(store.Doc, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyDoc(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}
