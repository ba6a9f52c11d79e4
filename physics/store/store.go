// Package store provides BodyStore, the bounded contiguous body
// container the octree indexes into.
package store

import (
	"github.com/pkg/errors"

	"github.com/stellarforge/nbody-core/core/constants"
	"github.com/stellarforge/nbody-core/physics/body"
)

// ErrCapacityExceeded is returned by Push when the store is already at
// capacity. Callers MAY ignore it; the drop is a non-fatal,
// engine-visible input rate-limit, not a build failure.
var ErrCapacityExceeded = errors.New("store: capacity exceeded")

// BodyStore is an ordered, capacity-bounded sequence of bodies.
// Indices in [0, Len()) are the identity the octree's leaves carry as
// body_index; they are stable across the force and collision phases
// of a tick and invalidated only by RemoveDead.
type BodyStore struct {
	bodies   []body.Body
	capacity int
}

// New creates an empty store with the given capacity.
func New(capacity int) *BodyStore {
	return &BodyStore{
		bodies:   make([]body.Body, 0, capacity),
		capacity: capacity,
	}
}

// NewDefault creates an empty store at constants.MaxBodies capacity.
func NewDefault() *BodyStore {
	return New(constants.MaxBodies)
}

// Len returns the current live body count.
func (s *BodyStore) Len() int {
	return len(s.bodies)
}

// Cap returns the store's hard capacity.
func (s *BodyStore) Cap() int {
	return s.capacity
}

// At returns the body at index i. Callers in the parallel phase of a
// tick must not hold onto the returned pointer past the barrier if
// another goroutine might compact the store.
func (s *BodyStore) At(i int) *body.Body {
	return &s.bodies[i]
}

// Bodies exposes the live backing slice for read-mostly iteration
// (the renderer and serializer collaborators).
func (s *BodyStore) Bodies() []body.Body {
	return s.bodies
}

// Push appends b if the store has spare capacity. A store at capacity
// silently drops the body; ErrCapacityExceeded is returned so a caller
// that wants to observe the drop (metrics) can, but it is never fatal.
func (s *BodyStore) Push(b body.Body) error {
	if len(s.bodies) >= s.capacity {
		return ErrCapacityExceeded
	}
	s.bodies = append(s.bodies, b)
	return nil
}

// Merge combines the bodies at targetIdx and sourceIdx, preserving
// total mass and momentum, and writes the result at targetIdx. The
// body at sourceIdx is left as a tombstone (mass = 0) rather than
// removed, so indices gathered earlier in the same tick stay valid
// until RemoveDead runs (a two-phase mark-then-compact scheme).
func (s *BodyStore) Merge(targetIdx, sourceIdx int) {
	t := &s.bodies[targetIdx]
	src := &s.bodies[sourceIdx]

	total := t.Mass + src.Mass
	if total == 0 {
		return
	}
	wt := t.Mass / total
	ws := src.Mass / total

	merged := body.Body{
		Position: t.Position.Scale(wt).Add(src.Position.Scale(ws)),
		Velocity: t.Velocity.Scale(wt).Add(src.Velocity.Scale(ws)),
		Material: t.Material,
	}
	if ws > wt {
		merged.Material = src.Material
	}
	merged.SetMass(total)

	*t = merged
	src.SetMass(0)
}

// RemoveDead compacts the store in place, swapping each tombstone with
// the last live entry so the donor of every swap is guaranteed alive.
// Trailing tombstones are simply popped first. Idempotent: a second
// call on an already-compact store is a no-op.
func (s *BodyStore) RemoveDead() {
	n := len(s.bodies)
	for n > 0 && s.bodies[n-1].IsTombstone() {
		n--
	}
	for i := 0; i < n; {
		if s.bodies[i].IsTombstone() {
			n--
			for n > i && s.bodies[n].IsTombstone() {
				n--
			}
			if n == i {
				break
			}
			s.bodies[i] = s.bodies[n]
			continue
		}
		i++
	}
	s.bodies = s.bodies[:n]
}

// TotalMass sums the mass of every live body, used by tests asserting
// mass conservation across a merge.
func (s *BodyStore) TotalMass() float64 {
	var total float64
	for i := range s.bodies {
		total += s.bodies[i].Mass
	}
	return total
}
