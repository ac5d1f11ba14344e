package lfset

import (
	"slices"
)

// Tables are tracked as numbered generations. A generation stays registered
// while it is current or while its successor is still draining it; once the
// last chunk is migrated it is retired and left to the garbage collector,
// which frees it as soon as no goroutine holds a stale reference.

func (s *Set) register(t *table) {
	s.gens.Store(t.gen, t)
}

func (s *Set) unregister(t *table) {
	s.gens.Delete(t.gen)
}

// retire unlinks a fully drained predecessor.
func (s *Set) retire(t, pred *table) {
	t.pred.Store(nil)
	s.unregister(pred)
}

// Generation returns the id of the current table. The initial table is
// generation 0; ids grow with every successor that is built, so they are
// not dense when concurrent resizes race.
func (s *Set) Generation() uint64 {
	return s.current.Load().gen
}

// liveGenerations returns the registered generation ids in ascending order.
func (s *Set) liveGenerations() []uint64 {
	var ids []uint64
	s.gens.Range(func(gen uint64, _ *table) bool {
		ids = append(ids, gen)
		return true
	})
	slices.Sort(ids)
	return ids
}
