// Package checkpoint keeps, per concept, the ids of the checkpoints the
// user has ticked for the concept's current stage. The record lives in
// client-local storage, not in the document store, and is advisory: losing
// it only clears the ticks.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nhle/content-hub/internal/logging"
	"github.com/nhle/content-hub/internal/store"
)

// StorageKey is the single local storage key holding the whole mapping.
const StorageKey = "content-hub:checkpoints"

// Store reads and writes the concept id to completed checkpoint ids
// mapping. Every mutation is a synchronous read-modify-write of the whole
// mapping. The mutex serializes writers in this process only; two
// processes sharing the storage still race with last write winning.
type Store struct {
	mu      sync.Mutex
	storage store.LocalStorage
	log     *logging.Logger
}

// New creates a checkpoint store on top of storage.
func New(storage store.LocalStorage, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{storage: storage, log: log}
}

// LoadAll returns the full mapping. Unavailable or corrupt storage yields
// an empty mapping; the failure is logged.
func (s *Store) LoadAll() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAll()
}

func (s *Store) loadAll() map[string][]string {
	raw, ok, err := s.storage.GetItem(StorageKey)
	if err != nil {
		s.log.Warn("reading checkpoints failed", "error", err)
		return map[string][]string{}
	}
	if !ok || raw == "" {
		return map[string][]string{}
	}

	var all map[string][]string
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		s.log.Warn("parsing checkpoints failed", "error", err)
		return map[string][]string{}
	}
	if all == nil {
		all = map[string][]string{}
	}
	return all
}

// SaveAll replaces the persisted mapping. Failures are logged and returned.
func (s *Store) SaveAll(all map[string][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAll(all)
}

func (s *Store) saveAll(all map[string][]string) error {
	data, err := json.Marshal(all)
	if err != nil {
		s.log.Error("encoding checkpoints failed", "error", err)
		return fmt.Errorf("encoding checkpoints: %w", err)
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		s.log.Error("saving checkpoints failed", "error", err)
		return fmt.Errorf("saving checkpoints: %w", err)
	}
	return nil
}

// SaveForConcept replaces the completed set of one concept.
func (s *Store) SaveForConcept(conceptID string, checkpointIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll()
	all[conceptID] = dedupe(checkpointIDs)
	return s.saveAll(all)
}

// GetForConcept returns the completed checkpoint ids of a concept, or an
// empty slice.
func (s *Store) GetForConcept(conceptID string) []string {
	ids := s.LoadAll()[conceptID]
	if ids == nil {
		return []string{}
	}
	return ids
}

// Toggle flips one checkpoint for a concept and returns the new set. Ids
// from an earlier stage are left in place; Reset clears them.
func (s *Store) Toggle(conceptID, checkpointID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll()
	current := all[conceptID]
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, id := range current {
		if id == checkpointID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, checkpointID)
	}

	all[conceptID] = next
	if err := s.saveAll(all); err != nil {
		return current, err
	}
	return next, nil
}

// Swap replaces a concept's completed set with ids and returns the set it
// held before, under one lock.
func (s *Store) Swap(conceptID string, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll()
	previous := all[conceptID]
	if previous == nil {
		previous = []string{}
	}
	all[conceptID] = dedupe(ids)
	if err := s.saveAll(all); err != nil {
		return previous, err
	}
	return previous, nil
}

// Restore puts previous back for a concept after a Swap, keeping any ids
// that were added since.
func (s *Store) Restore(conceptID string, previous []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadAll()
	all[conceptID] = dedupe(append(append([]string{}, previous...), all[conceptID]...))
	return s.saveAll(all)
}

// Reset clears a concept's completed set. It runs whenever the concept
// moves to another stage.
func (s *Store) Reset(conceptID string) error {
	return s.SaveForConcept(conceptID, []string{})
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
