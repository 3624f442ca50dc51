package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
)

func TestStore_InsertAndGet(t *testing.T) {
	s := New()

	if err := s.Insert(Item{ID: 1234, Name: "esgrove"}); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	item, ok := s.Get("esgrove")
	if !ok {
		t.Fatal("expected inserted item to be visible")
	}
	if item.ID != 1234 || item.Name != "esgrove" {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestStore_InsertDuplicateName(t *testing.T) {
	s := New()

	if err := s.Insert(Item{ID: 1000, Name: "esgrove"}); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	err := s.Insert(Item{ID: 2000, Name: "esgrove"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// The original item must survive.
	item, ok := s.Get("esgrove")
	if !ok || item.ID != 1000 {
		t.Fatalf("expected original item to remain, got %+v (ok=%t)", item, ok)
	}
}

func TestStore_InsertDuplicateID(t *testing.T) {
	s := New()

	if err := s.Insert(Item{ID: 1500, Name: "first"}); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	err := s.Insert(Item{ID: 1500, Name: "second"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	// The failed insert must not leave the name behind.
	if _, ok := s.Get("second"); ok {
		t.Fatal("expected second item to be absent")
	}
}

func TestStore_InsertInvalidID(t *testing.T) {
	for _, id := range []uint64{0, 999, 10000} {
		t.Run(fmt.Sprintf("id %d", id), func(t *testing.T) {
			s := New()
			err := s.Insert(Item{ID: id, Name: "esgrove"})
			if !errors.Is(err, ErrInvalidID) {
				t.Fatalf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}

func TestStore_InsertNewAssignsIDs(t *testing.T) {
	s := New()

	first, err := s.InsertNew("first")
	if err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}
	if first.ID != MinItemID {
		t.Fatalf("expected first generated id to be %d, got %d", MinItemID, first.ID)
	}

	second, err := s.InsertNew("second")
	if err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected monotonically increasing ids, got %d after %d", second.ID, first.ID)
	}
}

func TestStore_GeneratedIDSkipsClaimedID(t *testing.T) {
	s := New()

	// Claim the id the counter would hand out next.
	if err := s.Insert(Item{ID: MinItemID, Name: "claimed"}); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	item, err := s.InsertNew("generated")
	if err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}
	if item.ID == MinItemID {
		t.Fatalf("generated id %d collides with claimed id", item.ID)
	}
}

func TestStore_Remove(t *testing.T) {
	s := New()

	if _, err := s.Remove("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Insert(Item{ID: 1234, Name: "esgrove"}); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	removed, err := s.Remove("esgrove")
	if err != nil {
		t.Fatalf("unexpected remove error: %v", err)
	}
	if removed.ID != 1234 {
		t.Fatalf("unexpected removed item: %+v", removed)
	}

	if _, ok := s.Get("esgrove"); ok {
		t.Fatal("expected item to be gone after removal")
	}

	// The caller-supplied id is claimable again after removal.
	if err := s.Insert(Item{ID: 1234, Name: "other"}); err != nil {
		t.Fatalf("expected id to be reusable after removal, got %v", err)
	}
}

func TestStore_Clear(t *testing.T) {
	s := New()

	for i := 0; i < 10; i++ {
		if _, err := s.InsertNew(fmt.Sprintf("item-%d", i)); err != nil {
			t.Fatalf("unexpected insert error: %v", err)
		}
	}

	if removed := s.Clear(); removed != 10 {
		t.Fatalf("expected 10 removed, got %d", removed)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d items", s.Len())
	}
	if names := s.Names(); len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}

	if removed := s.Clear(); removed != 0 {
		t.Fatalf("expected clearing an empty store to remove 0, got %d", removed)
	}
}

func TestStore_ListIsSortedByName(t *testing.T) {
	s := New()

	for _, name := range []string{"zebra", "alpha", "mango"} {
		if _, err := s.InsertNew(name); err != nil {
			t.Fatalf("unexpected insert error: %v", err)
		}
	}

	items := s.List()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if !sort.SliceIsSorted(items, func(i, j int) bool { return items[i].Name < items[j].Name }) {
		t.Fatalf("expected items sorted by name, got %v", items)
	}

	names := s.Names()
	expected := []string{"alpha", "mango", "zebra"}
	for i, name := range expected {
		if names[i] != name {
			t.Fatalf("expected names %v, got %v", expected, names)
		}
	}
}

func TestStore_ConcurrentInsertSameName(t *testing.T) {
	const workers = 128

	s := New()

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = s.InsertNew("esgrove")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateName):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly one successful insert, got %d", successes)
	}
	if s.Len() != 1 {
		t.Fatalf("expected exactly one stored item, got %d", s.Len())
	}
}

func TestStore_ConcurrentInsertDistinctNames(t *testing.T) {
	const workers = 100

	s := New()

	var wg sync.WaitGroup
	items := make([]Item, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			item, err := s.InsertNew(fmt.Sprintf("item-%d", idx))
			if err != nil {
				t.Errorf("unexpected insert error: %v", err)
				return
			}
			items[idx] = item
		}(i)
	}
	wg.Wait()

	if s.Len() != workers {
		t.Fatalf("expected %d items, got %d", workers, s.Len())
	}

	seen := make(map[uint64]struct{}, workers)
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			t.Fatalf("duplicate generated id %d", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
}

func TestStore_ConcurrentMixedOperations(t *testing.T) {
	const workers = 50

	s := New()
	if err := s.Insert(Item{ID: 1234, Name: "pivot"}); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			switch idx % 3 {
			case 0:
				s.Get("pivot")
			case 1:
				_, _ = s.InsertNew(fmt.Sprintf("worker-%d", idx))
			case 2:
				s.List()
			}
		}(i)
	}
	wg.Wait()

	// The pivot item must be untouched by unrelated traffic.
	item, ok := s.Get("pivot")
	if !ok || item.ID != 1234 {
		t.Fatalf("expected pivot item to survive, got %+v (ok=%t)", item, ok)
	}
}
