package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"backend/store"
)

func TestSetGetRoundtrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set("things", "a", store.Doc{"name": "widget", "count": int64(3)})
		return nil
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	doc, err := s.Get(ctx, "things", "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["name"] != "widget" || doc["count"] != int64(3) {
		t.Errorf("doc = %v", doc)
	}

	missing, err := s.Get(ctx, "things", "b")
	if err != nil || missing != nil {
		t.Errorf("absent doc = %v, %v, want nil, nil", missing, err)
	}
}

func TestReturnedDocsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set("things", "a", store.Doc{"nested": map[string]interface{}{"k": int64(1)}})
		return nil
	})
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	doc, _ := s.Get(ctx, "things", "a")
	doc["nested"].(map[string]interface{})["k"] = int64(99)

	again, _ := s.Get(ctx, "things", "a")
	if again["nested"].(map[string]interface{})["k"] != int64(1) {
		t.Error("mutating a returned doc leaked into the store")
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set("things", "a", store.Doc{"name": "widget", "count": int64(3)})
		return nil
	})
	s.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Update("things", "a", store.Doc{"count": int64(5)})
		return nil
	})

	doc, _ := s.Get(ctx, "things", "a")
	if doc["count"] != int64(5) || doc["name"] != "widget" {
		t.Errorf("doc = %v", doc)
	}
}

func TestBusinessErrorAbortsWithoutWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	attempts := 0
	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		attempts++
		tx.Set("things", "a", store.Doc{"name": "widget"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if attempts != 1 {
		t.Errorf("fn ran %d times, business errors must not retry", attempts)
	}
	if doc, _ := s.Get(ctx, "things", "a"); doc != nil {
		t.Error("aborted transaction left a write behind")
	}
}

func TestConcurrentIncrementsSerialize(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set("counters", "c", store.Doc{"n": int64(0)})
		return nil
	})

	const workers = 20
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.RunTransaction(ctx, func(tx store.Tx) error {
				doc, err := tx.Get("counters", "c")
				if err != nil {
					return err
				}
				tx.Update("counters", "c", store.Doc{"n": doc["n"].(int64) + 1})
				return nil
			})
		}(i)
	}
	wg.Wait()

	succeeded := int64(0)
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, store.ErrConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	doc, _ := s.Get(ctx, "counters", "c")
	if doc["n"].(int64) != succeeded {
		t.Errorf("counter = %d, %d transactions succeeded; lost or phantom updates", doc["n"], succeeded)
	}
	if succeeded == 0 {
		t.Error("no increment succeeded at all")
	}
}

func TestStaleReadOfDeletedDocConflicts(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set("things", "a", store.Doc{"n": int64(1)})
		return nil
	})

	// fn reads, then the doc is deleted out from under it on the first
	// attempt; the retry sees the deletion.
	attempt := 0
	err := s.RunTransaction(ctx, func(tx store.Tx) error {
		attempt++
		doc, err := tx.Get("things", "a")
		if err != nil {
			return err
		}
		if attempt == 1 {
			if err := s.RunTransaction(ctx, func(inner store.Tx) error {
				inner.Delete("things", "a")
				return nil
			}); err != nil {
				return err
			}
		}
		if doc == nil {
			return errors.New("gone")
		}
		tx.Update("things", "a", store.Doc{"n": int64(2)})
		return nil
	})
	if err == nil || err.Error() != "gone" {
		t.Fatalf("err = %v, want retry to observe deletion", err)
	}
	if attempt != 2 {
		t.Errorf("attempts = %d, want 2", attempt)
	}
}

func TestQueryFiltersOrderingAndLimit(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set("records", "a", store.Doc{"kind": "x", "score": int64(10)})
		tx.Set("records", "b", store.Doc{"kind": "x", "score": int64(30)})
		tx.Set("records", "c", store.Doc{"kind": "y", "score": int64(20)})
		tx.Set("records", "d", store.Doc{"kind": "x", "score": int64(20)})
		return nil
	})

	out, err := s.Query(ctx, "records", store.Query{
		Filters: []store.Filter{
			{Field: "kind", Op: "==", Value: "x"},
			{Field: "score", Op: ">=", Value: int64(15)},
		},
		OrderBy: "score",
		Desc:    true,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "d" {
		t.Fatalf("results = %+v", out)
	}

	limited, err := s.Query(ctx, "records", store.Query{OrderBy: "score", Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "a" {
		t.Errorf("limited results = %+v", limited)
	}
}

func TestQueryDoesNotCrossCollections(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.RunTransaction(ctx, func(tx store.Tx) error {
		tx.Set("one", "a", store.Doc{"v": int64(1)})
		tx.Set("two", "a", store.Doc{"v": int64(2)})
		return nil
	})

	out, err := s.Query(ctx, "one", store.Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].Data["v"] != int64(1) {
		t.Errorf("results = %+v", out)
	}
}
