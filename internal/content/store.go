package content

import (
	"sync/atomic"

	"github.com/visiona/signage/internal/types"
)

// Store holds the active catalog behind an atomic pointer. Replacement is
// whole-object: readers observe either the previous complete catalog or the
// new complete catalog, never an intermediate state. Single writer (the
// hot-reload bridge), read-mostly (the playback loop).
type Store struct {
	cur atomic.Pointer[types.Catalog]
	gen atomic.Uint64
}

// NewStore creates a store holding an empty catalog so readers never see nil
func NewStore() *Store {
	s := &Store{}
	s.cur.Store(&types.Catalog{})
	return s
}

// Install atomically replaces the active catalog and bumps the generation.
// The previous catalog stays valid for any in-flight rendering that still
// references it.
func (s *Store) Install(cat *types.Catalog) {
	s.cur.Store(cat)
	s.gen.Add(1)
}

// Current returns the active catalog and its generation. The two loads are
// not one atomic snapshot: a concurrent Install can pair a fresh catalog
// with a stale generation. Readers must treat the generation as advisory
// and bound any index against the returned catalog itself.
func (s *Store) Current() (*types.Catalog, uint64) {
	gen := s.gen.Load()
	return s.cur.Load(), gen
}
