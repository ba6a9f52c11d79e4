// Package octree implements the Barnes-Hut spatial index: world-bounds
// snapping, insertion over a node arena, mass/centroid back-propagation,
// an approximate force query, and a tree-guided broad-phase collision
// detector.
package octree

import (
	"math"

	"github.com/pkg/errors"

	"github.com/stellarforge/nbody-core/core/constants"
	"github.com/stellarforge/nbody-core/core/vector"
	"github.com/stellarforge/nbody-core/physics/arena"
	"github.com/stellarforge/nbody-core/physics/body"
)

// ErrBoundsViolated is returned by Build when a body's position falls
// outside the freshly snapped root box. The caller's tick is expected
// to abort its build and retain the prior tick's state.
var ErrBoundsViolated = errors.New("octree: body position outside root bounds")

// ErrArenaOverflow is returned by Build when insertion needs more node
// groups than the tick's Reserve call provisioned. It is fatal to the
// build in progress, same as ErrBoundsViolated: the caller aborts and
// keeps the prior tick's state rather than finishing over a
// partially-built tree.
var ErrArenaOverflow = errors.New("octree: arena capacity exhausted during insertion")

// Octree is a Barnes-Hut tree rebuilt from scratch every tick over an
// owned NodeArena. It is read-only to force-query callers during the
// parallel phase; collision-detection callers mutate only leaf
// body-index words, through Element.Consume.
type Octree struct {
	root  arena.Node
	nodes *arena.Arena
	theta float64
}

// New returns an Octree using the given Barnes-Hut opening angle,
// which must stay within [0, 2].
func New(theta float64) *Octree {
	return &Octree{nodes: arena.New(), theta: theta}
}

// Theta returns the tree's configured opening angle.
func (o *Octree) Theta() float64 {
	return o.theta
}

// SetTheta updates the tree's opening angle, taking effect on the
// next Build.
func (o *Octree) SetTheta(theta float64) {
	o.theta = theta
}

// Build resets the tree and arena, snaps the world bounds to the
// current body set, and inserts every live body by its store index.
// An empty body set produces an empty-leaf root.
func (o *Octree) Build(bodies []body.Body) error {
	o.nodes.Clear()

	if len(bodies) == 0 {
		o.root = arena.Node{FirstChild: arena.EmptyLeaf, Box: arena.BoundingBox{Center: vector.Zero, Radius: 1}}
		return nil
	}

	box := snapBounds(bodies)
	o.root = arena.Node{FirstChild: arena.EmptyLeaf, Box: box}
	o.nodes.Reserve(len(bodies))

	for i := range bodies {
		b := &bodies[i]
		if !o.root.Box.Contains(b.Position) {
			return ErrBoundsViolated
		}
		if err := o.insert(&o.root, b.Position, b.Mass, b.Radius, int32(i)); err != nil {
			return err
		}
	}

	o.backPropagate(&o.root)
	return nil
}

func (o *Octree) insert(node *arena.Node, pos vector.Vec3, mass, radius float64, idx int32) error {
	switch {
	case node.FirstChild == arena.EmptyLeaf:
		node.FirstChild = arena.OccupiedLeaf
		node.Data = arena.Element{Position: pos, Mass: mass, RadiusBound: radius}
		node.Data.SetBodyIndex(idx)
		return nil

	case node.FirstChild == arena.OccupiedLeaf:
		if node.Box.Radius < constants.Epsilon {
			// Two elements land in the same leaf with no room left to
			// split further: refuse to split and colocate both as a
			// single combined aggregate instead of recursing forever.
			// The combined leaf no longer corresponds to one store
			// index, so it is marked unconsumable rather than
			// reporting a stale partner.
			old := node.Data
			total := old.Mass + mass
			t, s := old.Mass/total, mass/total
			node.Data = arena.Element{
				Position:    old.Position.Scale(t).Add(pos.Scale(s)),
				Mass:        total,
				RadiusBound: math.Max(old.RadiusBound, radius),
			}
			node.Data.SetBodyIndex(arena.NoBody)
			return nil
		}

		old := node.Data
		groupIdx, err := o.nodes.AllocGroup()
		if err != nil {
			return ErrArenaOverflow
		}
		node.FirstChild = groupIdx
		group := o.nodes.Group(groupIdx)
		for i := 0; i < 8; i++ {
			group[i] = arena.Node{FirstChild: arena.EmptyLeaf, Box: node.Box.Child(i)}
		}
		node.Data = arena.Element{}

		oldOctant := node.Box.Octant(old.Position)
		if err := o.insert(&group[oldOctant], old.Position, old.Mass, old.RadiusBound, old.LoadBodyIndex()); err != nil {
			return err
		}
		newOctant := node.Box.Octant(pos)
		return o.insert(&group[newOctant], pos, mass, radius, idx)

	default:
		group := o.nodes.Group(node.FirstChild)
		octant := node.Box.Octant(pos)
		return o.insert(&group[octant], pos, mass, radius, idx)
	}
}

// backPropagate is the post-order pass computing each internal node's
// mass, centroid, and bounding radius from its children.
func (o *Octree) backPropagate(node *arena.Node) {
	if node.FirstChild == arena.EmptyLeaf || node.FirstChild == arena.OccupiedLeaf {
		return
	}

	group := o.nodes.Group(node.FirstChild)
	var mass float64
	var centroid vector.Vec3
	for i := 0; i < 8; i++ {
		child := &group[i]
		o.backPropagate(child)
		if child.FirstChild == arena.EmptyLeaf {
			continue
		}
		mass += child.Data.Mass
		centroid = centroid.Add(child.Data.Position.Scale(child.Data.Mass))
	}
	if mass > 0 {
		centroid = centroid.Scale(1 / mass)
	}

	var radiusBound float64
	for i := 0; i < 8; i++ {
		child := &group[i]
		if child.FirstChild == arena.EmptyLeaf {
			continue
		}
		d := centroid.Distance(child.Data.Position) + child.Data.RadiusBound
		if d > radiusBound {
			radiusBound = d
		}
	}

	node.Data = arena.Element{Position: centroid, Mass: mass, RadiusBound: radiusBound}
	node.Data.SetBodyIndex(arena.NoBody)
}

// CalculateForce returns the Barnes-Hut approximation of the total
// gravitational acceleration-weighted force exerted on b by every
// other body in the tree, under gravitational constant g.
func (o *Octree) CalculateForce(b *body.Body, g float64) vector.Vec3 {
	return o.force(&o.root, b.Position, g)
}

func (o *Octree) force(node *arena.Node, pos vector.Vec3, g float64) vector.Vec3 {
	switch {
	case node.FirstChild == arena.EmptyLeaf:
		return vector.Zero

	case node.FirstChild == arena.OccupiedLeaf:
		d2 := node.Data.Position.DistanceSquared(pos)
		if d2 == 0 {
			return vector.Zero
		}
		d := math.Sqrt(d2)
		return node.Data.Position.Sub(pos).Scale(g * node.Data.Mass / (d2 * d))

	default:
		d := node.Data.Position.Distance(pos)
		if d == 0 {
			group := o.nodes.Group(node.FirstChild)
			var total vector.Vec3
			for i := 0; i < 8; i++ {
				total = total.Add(o.force(&group[i], pos, g))
			}
			return total
		}
		s := 2 * node.Box.Radius
		if s/d < o.theta {
			d2 := d * d
			return node.Data.Position.Sub(pos).Scale(g * node.Data.Mass / (d2 * d))
		}
		group := o.nodes.Group(node.FirstChild)
		var total vector.Vec3
		for i := 0; i < 8; i++ {
			total = total.Add(o.force(&group[i], pos, g))
		}
		return total
	}
}

// DetectCollision returns the store index of the first other body
// that overlaps b, or -1. bodyIndex is b's own store index, used to
// skip self and pairs already reported from the other side.
func (o *Octree) DetectCollision(b *body.Body, bodyIndex int) int {
	return int(o.detectCollision(&o.root, b.Position, b.Radius, int32(bodyIndex)))
}

func (o *Octree) detectCollision(node *arena.Node, pos vector.Vec3, radius float64, bodyIndex int32) int32 {
	if node.FirstChild == arena.EmptyLeaf {
		return arena.NoBody
	}
	if node.Data.Position.Distance(pos) > radius+node.Data.RadiusBound {
		return arena.NoBody
	}

	if node.FirstChild == arena.OccupiedLeaf {
		idx := node.Data.LoadBodyIndex()
		if idx <= bodyIndex {
			return arena.NoBody
		}
		consumed := node.Data.Consume()
		if consumed <= bodyIndex {
			return arena.NoBody
		}
		return consumed
	}

	group := o.nodes.Group(node.FirstChild)
	for i := 0; i < 8; i++ {
		if got := o.detectCollision(&group[i], pos, radius, bodyIndex); got != arena.NoBody {
			return got
		}
	}
	return arena.NoBody
}

// RootBox returns the current tick's snapped world bounds, exposed for
// tests and diagnostics.
func (o *Octree) RootBox() arena.BoundingBox {
	return o.root.Box
}

func snapBounds(bodies []body.Body) arena.BoundingBox {
	min := bodies[0].Position
	max := bodies[0].Position
	for i := 1; i < len(bodies); i++ {
		p := bodies[i].Position
		min = vector.New(math.Min(min.X, p.X), math.Min(min.Y, p.Y), math.Min(min.Z, p.Z))
		max = vector.New(math.Max(max.X, p.X), math.Max(max.Y, p.Y), math.Max(max.Z, p.Z))
	}

	center := min.Add(max).Scale(0.5)
	half := max.Sub(min).Scale(0.5)

	snappedCenter := vector.New(snapCenter(center.X), snapCenter(center.Y), snapCenter(center.Z))
	drift := snappedCenter.Sub(center)
	extent := half.Add(vector.New(math.Abs(drift.X), math.Abs(drift.Y), math.Abs(drift.Z)))

	return arena.BoundingBox{Center: snappedCenter, Radius: snapRadius(extent.MaxComponent())}
}

// snapCenter snaps a single coordinate to the nearest signed power of
// two once its magnitude exceeds 2, else to the nearest integer.
func snapCenter(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
	}
	ax := math.Abs(x)
	if ax > 2 {
		return sign * math.Pow(2, math.Round(math.Log2(ax)))
	}
	return sign * math.Round(ax)
}

// snapRadius snaps a half-extent up to the next power of two once its
// magnitude exceeds 2, else up to the next integer; both branches
// always land on a power of two for inputs in (0, 2].
func snapRadius(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x > 2 {
		return math.Pow(2, math.Ceil(math.Log2(x)))
	}
	return math.Ceil(x)
}
