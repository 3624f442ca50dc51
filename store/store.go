// Package store holds all items for the lifetime of the process. It is the
// only shared mutable state in the service and is safe for concurrent use
// without external locking.
package store

import (
	"errors"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
)

const shardCount = 16

// Server-assigned ids start here; caller-supplied ids must stay within the
// window so generated and supplied ids share one number space.
const (
	MinItemID = 1000
	MaxItemID = 9999
)

var (
	// ErrDuplicateName reports an insert for a name that is already stored.
	ErrDuplicateName = errors.New("item name already exists")
	// ErrDuplicateID reports an insert with an id that is already in use.
	ErrDuplicateID = errors.New("item id already exists")
	// ErrNotFound reports a lookup or removal for a name that is not stored.
	ErrNotFound = errors.New("item does not exist")
	// ErrInvalidID reports a caller-supplied id outside the valid window.
	ErrInvalidID = errors.New("item id must be between 1000 and 9999")
)

// Item is the stored entity. The name is the natural key; the id is unique
// across all live items.
type Item struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type shard struct {
	mu    sync.RWMutex
	items map[string]Item
}

// Store is a sharded concurrent map keyed by item name. Names hash onto
// independent shards so unrelated operations never contend on one lock.
// A separate id index keeps ids unique across shards.
type Store struct {
	shards [shardCount]*shard

	idMu sync.Mutex
	ids  map[uint64]string

	// nextID is monotonically increasing and never reused after deletion.
	nextID atomic.Uint64
}

// New returns an empty store.
func New() *Store {
	s := &Store{
		ids: make(map[uint64]string),
	}
	for i := range s.shards {
		s.shards[i] = &shard{items: make(map[string]Item)}
	}
	s.nextID.Store(MinItemID - 1)
	return s
}

func (s *Store) shardFor(name string) *shard {
	h := fnv.New32a()
	h.Write([]byte(name))
	return s.shards[h.Sum32()%shardCount]
}

// Insert adds a new item under its name. It fails with ErrDuplicateName when
// the name is taken and ErrDuplicateID when the id is held by another item.
// Exactly one of two racing inserts for the same name succeeds.
func (s *Store) Insert(item Item) error {
	if err := s.reserveID(item.ID, item.Name); err != nil {
		return err
	}

	sh := s.shardFor(item.Name)
	sh.mu.Lock()
	if _, exists := sh.items[item.Name]; exists {
		sh.mu.Unlock()
		s.releaseID(item.ID)
		return ErrDuplicateName
	}
	sh.items[item.Name] = item
	sh.mu.Unlock()
	return nil
}

// NewItem builds an item with a server-assigned id. Ids are handed out from
// an atomic counter, so concurrent calls always get distinct values. The
// counter skips over any id a caller has claimed for a live item.
func (s *Store) NewItem(name string) Item {
	for {
		id := s.nextID.Add(1)
		s.idMu.Lock()
		_, taken := s.ids[id]
		if !taken {
			s.ids[id] = name
		}
		s.idMu.Unlock()
		if !taken {
			return Item{ID: id, Name: name}
		}
	}
}

// InsertNew assigns an id to name and inserts the item in one step.
func (s *Store) InsertNew(name string) (Item, error) {
	item := s.NewItem(name)

	sh := s.shardFor(item.Name)
	sh.mu.Lock()
	if _, exists := sh.items[item.Name]; exists {
		sh.mu.Unlock()
		s.releaseID(item.ID)
		return Item{}, ErrDuplicateName
	}
	sh.items[item.Name] = item
	sh.mu.Unlock()
	return item, nil
}

// reserveID claims a caller-supplied id. The id check and the claim happen
// under one lock so two racing inserts cannot share an id.
func (s *Store) reserveID(id uint64, name string) error {
	if id < MinItemID || id > MaxItemID {
		return ErrInvalidID
	}
	s.idMu.Lock()
	defer s.idMu.Unlock()
	if _, taken := s.ids[id]; taken {
		return ErrDuplicateID
	}
	s.ids[id] = name
	return nil
}

func (s *Store) releaseID(id uint64) {
	s.idMu.Lock()
	delete(s.ids, id)
	s.idMu.Unlock()
}

// Get returns a copy of the item stored under name.
func (s *Store) Get(name string) (Item, bool) {
	sh := s.shardFor(name)
	sh.mu.RLock()
	item, ok := sh.items[name]
	sh.mu.RUnlock()
	return item, ok
}

// Remove deletes the item stored under name and returns it, or ErrNotFound.
// Caller-supplied ids become reusable once the item is gone; generated ids
// are never handed out again because the counter only moves forward.
func (s *Store) Remove(name string) (Item, error) {
	sh := s.shardFor(name)
	sh.mu.Lock()
	item, ok := sh.items[name]
	if !ok {
		sh.mu.Unlock()
		return Item{}, ErrNotFound
	}
	delete(sh.items, name)
	sh.mu.Unlock()

	s.releaseID(item.ID)
	return item, nil
}

// Clear removes every item and reports how many were deleted.
func (s *Store) Clear() int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for _, item := range sh.items {
			s.releaseID(item.ID)
		}
		removed += len(sh.items)
		sh.items = make(map[string]Item)
		sh.mu.Unlock()
	}
	return removed
}

// Len reports the number of stored items.
func (s *Store) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.items)
		sh.mu.RUnlock()
	}
	return total
}

// List returns a snapshot of all items sorted by name. Each shard is
// snapshotted under its own read lock; no lock is held across shards.
func (s *Store) List() []Item {
	items := make([]Item, 0, s.Len())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, item := range sh.items {
			items = append(items, item)
		}
		sh.mu.RUnlock()
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// Names returns all stored names sorted alphabetically.
func (s *Store) Names() []string {
	items := s.List()
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}
