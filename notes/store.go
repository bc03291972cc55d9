package notes

import (
	"fmt"
	"sync"
)

// Store owns the set of in-flight units for the current batch.
//
// It is the only shared mutable structure in the pipeline. All mutation
// goes through ApplyUpdate, which replaces only the named unit's fields;
// this is safe to call concurrently from in-flight phase tasks because
// each task owns a disjoint unit id. Readers always receive copies.
type Store struct {
	mu    sync.RWMutex
	units map[string]*Unit
	order []string // unit ids in display order
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{units: make(map[string]*Unit)}
}

// Replace discards the previous batch and installs a new one. This is the
// only supported whole-batch abandonment mechanism.
func (s *Store) Replace(units []*Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.units = make(map[string]*Unit, len(units))
	s.order = make([]string, 0, len(units))
	for _, unit := range units {
		s.units[unit.ID] = unit
		s.order = append(s.order, unit.ID)
	}
}

// Len returns the number of units in the current batch.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}

// IDs returns the unit ids in display order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Unit returns a copy of the unit with the given id.
func (s *Store) Unit(id string) (*Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unit, ok := s.units[id]
	if !ok {
		return nil, false
	}
	return unit.Clone(), true
}

// Units returns copies of all units in display order.
func (s *Store) Units() []*Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Unit, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.units[id].Clone())
	}
	return result
}

// ApplyUpdate runs the mutation function against the stored unit with the
// given id under the store lock. The function receives the stored instance
// directly; it must not retain the pointer past its return.
func (s *Store) ApplyUpdate(id string, mutate func(*Unit)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unit, ok := s.units[id]
	if !ok {
		return fmt.Errorf("notes: no unit with id %s", id)
	}
	mutate(unit)
	return nil
}

// UnitsInStage returns copies of all units currently in the given stage,
// in display order.
func (s *Store) UnitsInStage(stage Stage) []*Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Unit
	for _, id := range s.order {
		if s.units[id].Stage == stage {
			result = append(result, s.units[id].Clone())
		}
	}
	return result
}
