// Package arena provides NodeArena, a stable-index free list over
// groups of 8 octree nodes. It is the Go rendering of the indexed
// free list grounding this project's octree: constant-time insertion
// and removal without invalidating indices held elsewhere, with
// clearing as a single length reset rather than a walk.
package arena

import (
	"math"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/stellarforge/nbody-core/core/vector"
)

// ErrOverflow is returned by AllocGroup when the arena's pre-reserved
// capacity is exhausted. The arena never reallocates its backing
// storage mid-build (pointers into it must stay valid across a
// recursive insert), so exhausting Reserve's estimate is a fatal
// condition for the build in progress rather than something AllocGroup
// silently grows past.
var ErrOverflow = errors.New("arena: capacity exhausted")

// BoundingBox is an axis-aligned cube described by its center and
// half-extent.
type BoundingBox struct {
	Center vector.Vec3
	Radius float64
}

// Contains reports whether p lies within the box, per the
// Chebyshev-distance test max|p-center|∞ ≤ radius.
func (b BoundingBox) Contains(p vector.Vec3) bool {
	return p.Sub(b.Center).MaxComponent() <= b.Radius
}

// Octant returns the {0..7} child index for p relative to the box
// center: bit 2 is x≥cx, bit 1 is y≥cy, bit 0 is z≥cz.
func (b BoundingBox) Octant(p vector.Vec3) int {
	octant := 0
	if p.X >= b.Center.X {
		octant |= 4
	}
	if p.Y >= b.Center.Y {
		octant |= 2
	}
	if p.Z >= b.Center.Z {
		octant |= 1
	}
	return octant
}

// Child returns the bounding box of the given octant: half-extent
// halved, center shifted by ±radius/2 per axis per the octant's bits.
func (b BoundingBox) Child(octant int) BoundingBox {
	half := b.Radius / 2
	sign := func(bit uint) float64 {
		if octant&int(bit) != 0 {
			return 1
		}
		return -1
	}
	return BoundingBox{
		Center: vector.New(
			b.Center.X+sign(4)*half,
			b.Center.Y+sign(2)*half,
			b.Center.Z+sign(1)*half,
		),
		Radius: half,
	}
}

// Element is the aggregate a node carries: for an occupied leaf, a
// body's own position/mass/radius and store index; for an internal
// node, the mass-weighted centroid, total mass, and bounding radius
// of its descendants. BodyIndex is read and written across goroutines
// during the collision phase and must only be touched through the
// Load/Consume helpers below.
type Element struct {
	Position    vector.Vec3
	Mass        float64
	RadiusBound float64
	bodyIndex   int32
}

// NoBody is the sentinel BodyIndex value for an internal node or a
// leaf already consumed this tick.
const NoBody int32 = -1

// SetBodyIndex sets the element's index before the parallel phase
// begins; it is unsynchronized and must only be called during the
// single-threaded build.
func (e *Element) SetBodyIndex(idx int32) {
	e.bodyIndex = idx
}

// LoadBodyIndex atomically reads the element's store index.
func (e *Element) LoadBodyIndex() int32 {
	return atomic.LoadInt32(&e.bodyIndex)
}

// Consume atomically swaps the element's BodyIndex to NoBody and
// returns the value it held before the swap. Collision workers use
// this to claim a reported pair exactly once.
func (e *Element) Consume() int32 {
	return atomic.SwapInt32(&e.bodyIndex, NoBody)
}

// Node is one slot of the octree: its child-group encoding, its box,
// and its aggregate element.
type Node struct {
	// FirstChild encodes: -2 empty leaf, -1 occupied leaf, >=0 index
	// into the arena of this node's 8-child group.
	FirstChild int32
	Box        BoundingBox
	Data       Element
}

const (
	// EmptyLeaf marks a node with no body and no children.
	EmptyLeaf int32 = -2
	// OccupiedLeaf marks a node holding exactly one body.
	OccupiedLeaf int32 = -1
)

type group = [8]Node

// Arena is a free list over groups of 8 nodes. Allocation returns the
// group's index, stable until the next Clear; Free returns a group to
// the list for reuse within the same tick.
type Arena struct {
	groups    []group
	freeNext  []int32
	firstFree int32
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{firstFree: -1}
}

// Reserve grows the arena's backing capacity to hold at least the
// node-group count a tree of n well-distributed bodies can need
// (h = ⌈log₈ n⌉, (8^(h+1)-1)/7 - 1 groups), plus a flat chainDepthPad
// of single-child-split groups to absorb the handful of near-colocated
// pairs an ordinary build runs into without inflating the breadth
// estimate.
//
// This is a heuristic, not a hard bound: a pathological cluster of
// many near-colocated bodies can still force split chains deep enough
// in aggregate to exhaust it, in which case AllocGroup reports
// ErrOverflow rather than growing the backing slice out from under
// pointers already handed out during the in-progress build. Callers
// call Reserve once per tick before inserting.
func (a *Arena) Reserve(n int) {
	groups := reserveGroups(n)
	if groups <= cap(a.groups) {
		return
	}
	grown := make([]group, len(a.groups), groups)
	copy(grown, a.groups)
	a.groups = grown
	grownFree := make([]int32, len(a.freeNext), groups)
	copy(grownFree, a.freeNext)
	a.freeNext = grownFree
}

// chainDepthPad is added on top of the breadth estimate as flat,
// non-exponential headroom: enough single-child-split groups to carry
// a near-colocated pair from a root box down past Epsilon without
// inflating the whole tree's breadth-driven estimate (that estimate
// grows as 8^h, so padding h itself costs 8x per extra level).
const chainDepthPad = 64

func reserveGroups(n int) int {
	if n <= 1 {
		n = 1
	}
	h := int(math.Ceil(math.Log(float64(n)) / math.Log(8)))
	total := (int(math.Pow(8, float64(h+1))) - 1) / 7
	groups := total - 1 + chainDepthPad
	if groups < 1 {
		groups = 1
	}
	return groups
}

// Clear empties the arena, retaining its backing capacity so the next
// tick's Reserve is typically a no-op.
func (a *Arena) Clear() {
	a.groups = a.groups[:0]
	a.freeNext = a.freeNext[:0]
	a.firstFree = -1
}

// AllocGroup returns the index of a fresh, zero-valued group of 8
// nodes, reusing a freed slot if one is available. If no freed slot
// exists and the backing slice has no spare capacity left from the
// last Reserve, it returns ErrOverflow instead of growing the slice:
// growing here would reallocate out from under *Node pointers a
// caller already holds from earlier in the same recursive insert.
func (a *Arena) AllocGroup() (int32, error) {
	if a.firstFree != -1 {
		idx := a.firstFree
		a.firstFree = a.freeNext[idx]
		a.groups[idx] = group{}
		return idx, nil
	}
	if len(a.groups) >= cap(a.groups) {
		return 0, ErrOverflow
	}
	a.groups = append(a.groups, group{})
	a.freeNext = append(a.freeNext, -1)
	return int32(len(a.groups) - 1), nil
}

// FreeGroup returns a group to the free list.
func (a *Arena) FreeGroup(idx int32) {
	a.freeNext[idx] = a.firstFree
	a.firstFree = idx
}

// Group returns the 8 child nodes at idx, as allocated by AllocGroup.
func (a *Arena) Group(idx int32) *[8]Node {
	return &a.groups[idx]
}
