// Package engine provides Engine, the per-tick orchestrator tying the
// body store, octree, and worker pool together: build, force-accumulate
// and collide in parallel, integrate, then resolve collisions.
package engine

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stellarforge/nbody-core/concurrency/workerpool"
	"github.com/stellarforge/nbody-core/core/constants"
	"github.com/stellarforge/nbody-core/physics/body"
	"github.com/stellarforge/nbody-core/physics/octree"
	"github.com/stellarforge/nbody-core/physics/store"
	"github.com/stellarforge/nbody-core/simulation/config"
	"github.com/stellarforge/nbody-core/simulation/metrics"
	"github.com/stellarforge/nbody-core/simulation/serializer"
)

// mergePair is one (target, source) collision tuple gathered by a
// collide task; source always has the higher store index.
type mergePair struct {
	target int
	source int
}

// Engine owns a BodyStore, an Octree, and a WorkerPool, and drives one
// tick per Update call.
type Engine struct {
	bodies *store.BodyStore
	tree   *octree.Octree
	pool   *workerpool.Pool

	batches    int
	collisions [][]mergePair

	g         float64
	timescale float64
	timestep  float64

	runID   uuid.UUID
	lastErr error
	metrics *metrics.Metrics
}

// New returns an Engine with an empty body store at default capacity
// and the default theta, timescale, and timestep.
func New(g float64) *Engine {
	return NewWith(nil, g, constants.DefaultTimescale)
}

// NewWith returns an Engine seeded with bodies, using the given
// gravitational constant and initial timescale, with every other
// option at its default.
func NewWith(bodies []body.Body, g, timescale float64) *Engine {
	cfg := config.NewDefault()
	cfg.G = g
	cfg.Timescale = timescale
	return FromConfig(cfg, bodies)
}

// FromConfig returns an Engine built entirely from cfg: body store
// capacity, gravitational constant, Barnes-Hut opening angle,
// timescale, and timescale slider increment all come from cfg rather
// than package-level defaults.
func FromConfig(cfg *config.Config, bodies []body.Body) *Engine {
	bodyStore := store.New(cfg.MaxBodies)
	for _, b := range bodies {
		_ = bodyStore.Push(b)
	}

	pool := workerpool.NewDefault()
	b := maxInt(1, pool.Workers()/2)

	e := &Engine{
		bodies:    bodyStore,
		tree:      octree.New(cfg.Theta),
		pool:      pool,
		batches:   b,
		g:         cfg.G,
		timescale: cfg.Timescale,
		timestep:  cfg.Timestep,
		runID:     uuid.New(),
		metrics:   metrics.New(prometheus.NewRegistry()),
	}
	e.collisions = make([][]mergePair, b)
	return e
}

// Clone returns an independent Engine over a copy of the current body
// set, with its own worker pool and a fresh run identity.
func (e *Engine) Clone() *Engine {
	bodiesCopy := append([]body.Body(nil), e.bodies.Bodies()...)
	cfg := config.NewDefault()
	cfg.MaxBodies = e.bodies.Cap()
	cfg.G = e.g
	cfg.Theta = e.tree.Theta()
	cfg.Timescale = e.timescale
	cfg.Timestep = e.timestep
	return FromConfig(cfg, bodiesCopy)
}

// RunID returns the engine's identity, used to correlate logs and
// metrics across goroutines and ticks.
func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// Close releases the engine's worker pool. Safe to call once the
// engine is no longer driven by Update.
func (e *Engine) Close() {
	e.pool.Shutdown()
}

// AddBody appends a body; beyond capacity it is silently dropped.
func (e *Engine) AddBody(b body.Body) {
	if err := e.bodies.Push(b); err != nil {
		e.metrics.IncBodiesDropped()
	}
}

// Bodies exposes the store's live backing slice (not a copy), indexed
// by each body's current store index.
func (e *Engine) Bodies() []body.Body {
	return e.bodies.Bodies()
}

// Timescale returns the current simulated-seconds-per-real-second
// factor.
func (e *Engine) Timescale() float64 {
	return e.timescale
}

// SetTheta updates the Barnes-Hut opening angle used by subsequent
// ticks.
func (e *Engine) SetTheta(theta float64) {
	e.tree.SetTheta(theta)
}

// IncreaseTimescale advances the timescale by one timestep.
func (e *Engine) IncreaseTimescale() {
	e.timescale += e.timestep
}

// DecreaseTimescale retreats the timescale by one timestep, clamped
// at the timestep itself.
func (e *Engine) DecreaseTimescale() {
	e.timescale -= e.timestep
	if e.timescale < e.timestep {
		e.timescale = e.timestep
	}
}

// LastTickErr returns the error recorded by the most recent Update
// call if that call failed to build its tree, or nil; every Update
// clears it first.
func (e *Engine) LastTickErr() error {
	return e.lastErr
}

// Metrics returns the engine's Prometheus instrumentation.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Save serializes the live body set to w.
func (e *Engine) Save(w io.Writer) error {
	return serializer.WriteBodies(w, e.bodies.Bodies())
}

// Update advances the simulation by dt_seconds: build the tree,
// accumulate forces and detect collisions concurrently, integrate
// positions, then resolve collisions and compact.
func (e *Engine) Update(dtSeconds float64) error {
	start := time.Now()
	defer func() { e.metrics.ObserveTick(time.Since(start).Seconds()) }()

	timespan := e.timescale * dtSeconds
	e.lastErr = nil

	bodies := e.bodies.Bodies()
	if len(bodies) == 0 {
		return nil
	}

	if err := e.tree.Build(bodies); err != nil {
		e.lastErr = errors.Wrap(err, "engine: build octree")
		e.metrics.IncTickBuildFailures()
		return e.lastErr
	}

	ranges := batchRanges(len(bodies), e.batches)
	for b := range e.collisions {
		e.collisions[b] = e.collisions[b][:0]
	}

	for b, r := range ranges {
		b, r := b, r
		e.pool.Enqueue(func() { e.forceTask(bodies, r, timespan) })
		e.pool.Enqueue(func() { e.collideTask(bodies, b, r) })
	}
	e.pool.WaitFinished()

	for i := range bodies {
		bodies[i].Move(timespan)
	}

	merges := 0
	for _, batch := range e.collisions {
		for _, pair := range batch {
			e.bodies.Merge(pair.target, pair.source)
			merges++
		}
	}
	e.bodies.RemoveDead()

	e.metrics.AddMerges(merges)
	e.metrics.SetBodiesAlive(e.bodies.Len())
	e.metrics.SetTimescale(e.timescale)

	return nil
}

func (e *Engine) forceTask(bodies []body.Body, r [2]int, timespan float64) {
	for i := r[1] - 1; i >= r[0]; i-- {
		dv := e.tree.CalculateForce(&bodies[i], e.g)
		bodies[i].Accelerate(dv, timespan)
	}
}

func (e *Engine) collideTask(bodies []body.Body, batch int, r [2]int) {
	for i := r[0]; i < r[1]; i++ {
		idx := e.tree.DetectCollision(&bodies[i], i)
		if idx != -1 {
			e.collisions[batch] = append(e.collisions[batch], mergePair{target: i, source: idx})
		}
	}
}

// batchRanges partitions [0, n) into b deterministic, contiguous
// batches: the first n%b batches get one extra element.
func batchRanges(n, b int) [][2]int {
	ranges := make([][2]int, b)
	size := n / b
	rem := n % b
	for i := 0; i < b; i++ {
		start := i*size + minInt(i, rem)
		end := (i+1)*size + minInt(i+1, rem)
		ranges[i] = [2]int{start, end}
	}
	return ranges
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
