package services

import (
	"context"
	"drone-route-service/internal/domain"
	"drone-route-service/internal/platform/metrics"
	"drone-route-service/internal/platform/obs"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	ErrNoStops       = errors.New("route optimizer: matrix must hold the depot and at least one stop")
	ErrMatrixShape   = errors.New("route optimizer: distance matrix is not square")
	ErrSearchAborted = errors.New("route optimizer: search aborted")
)

// The context is polled once every cancelCheckEvery expanded nodes.
const cancelCheckEvery = 4096

// OptimizeOptions tune how the search runs. None of them change the result.
type OptimizeOptions struct {
	// DisablePruning explores every permutation. Used to check the bound.
	DisablePruning bool
	// SeedBound starts the pruning bound at the nearest-neighbour tour cost.
	// The incumbent itself stays empty, so tie-breaking is unaffected.
	SeedBound bool
	// Parallel explores each first-level child in its own goroutine.
	Parallel bool
}

// sharedBound is the best total known to any branch, stored as float64 bits.
type sharedBound struct {
	bits atomic.Uint64
}

func newSharedBound(v float64) *sharedBound {
	b := &sharedBound{}
	b.bits.Store(math.Float64bits(v))
	return b
}

func (b *sharedBound) load() float64 { return math.Float64frombits(b.bits.Load()) }

// lower replaces the bound with v if v is smaller.
func (b *sharedBound) lower(v float64) {
	for {
		old := b.bits.Load()
		if math.Float64frombits(old) <= v {
			return
		}
		if b.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}

// searchState is the accumulator threaded through one depth-first search.
// Each goroutine owns its own state; only shared is touched concurrently.
type searchState struct {
	ctx     context.Context
	m       domain.DistanceMatrix
	pruning bool
	seed    float64
	shared  *sharedBound

	bestTotal float64
	bestPath  []int

	// path is the vertex stack of the current branch; scratch[d] holds the
	// remaining set handed to children at depth d.
	path    []int
	scratch [][]int

	nodes, pruned, tours int64
	aborted              error
}

func newSearchState(ctx context.Context, m domain.DistanceMatrix, opts OptimizeOptions, seed float64, shared *sharedBound) *searchState {
	n := m.Size()
	scratch := make([][]int, n+1)
	for i := range scratch {
		scratch[i] = make([]int, 0, n)
	}

	return &searchState{
		ctx:       ctx,
		m:         m,
		pruning:   !opts.DisablePruning,
		seed:      seed,
		shared:    shared,
		bestTotal: math.Inf(1),
		bestPath:  make([]int, 0, n+1),
		path:      make([]int, 0, n+1),
		scratch:   scratch,
	}
}

// bound is the cost above which a partial route cannot improve anything.
func (s *searchState) bound() float64 {
	b := math.Min(s.bestTotal, s.seed)
	if s.shared != nil {
		b = math.Min(b, s.shared.load())
	}
	return b
}

func (s *searchState) record(total float64) {
	s.bestTotal = total
	s.bestPath = append(s.bestPath[:0], s.path...)
	s.bestPath = append(s.bestPath, 0)
	if s.shared != nil {
		s.shared.lower(total)
	}
}

// visit expands current with the given unvisited set and returns the cheapest
// completion cost found below it (0 when the branch is pruned).
func (s *searchState) visit(current int, unvisited []int, acc float64) float64 {
	s.path = append(s.path, current)
	cost := s.expand(current, unvisited, acc)
	s.path = s.path[:len(s.path)-1]
	return cost
}

func (s *searchState) expand(current int, unvisited []int, acc float64) float64 {
	s.nodes++
	if s.nodes%cancelCheckEvery == 0 && s.aborted == nil {
		s.aborted = s.ctx.Err()
	}
	if s.aborted != nil {
		return 0
	}

	back := s.m.At(current, 0)
	if len(unvisited) == 0 {
		s.tours++
		if total := acc + back; total < s.bestTotal {
			s.record(total)
		}
		return back
	}

	if s.pruning && acc > s.bound() {
		s.pruned++
		return 0
	}

	best := math.Inf(1)
	rest := s.scratch[len(s.path)]
	for i, v := range unvisited {
		rest = append(rest[:0], unvisited[:i]...)
		rest = append(rest, unvisited[i+1:]...)

		step := s.m.At(current, v)
		if total := step + s.visit(v, rest, acc+step); total < best {
			best = total
		}
	}

	return best
}

// OptimizeRoute finds the shortest round trip that starts and ends at matrix
// index 0 and visits every other index exactly once.
//
// The search is an exhaustive depth-first branch-and-bound: a branch is cut
// as soon as its accumulated cost exceeds the best complete tour known. It
// does not memoize subproblems, so its worst case is factorial in the number
// of stops. Children are explored in ascending index order and only strictly
// better tours replace the incumbent, so among equal-cost tours the first one
// discovered wins.
func OptimizeRoute(
	ctx context.Context,
	m domain.DistanceMatrix,
	opts OptimizeOptions,
) (_ domain.Tour, _ domain.SearchStats, err error) {
	defer obs.Time(ctx, "route.Optimize")(&err)

	n := m.Size()
	if n < 2 {
		return domain.Tour{}, domain.SearchStats{}, ErrNoStops
	}
	for i, row := range m {
		if len(row) != n {
			return domain.Tour{}, domain.SearchStats{}, fmt.Errorf("%w: row %d has %d entries, want %d", ErrMatrixShape, i, len(row), n)
		}
	}

	seed := math.Inf(1)
	if opts.SeedBound && !opts.DisablePruning {
		seed = NearestNeighborTour(m).Total
	}

	start := time.Now()
	var best *searchState
	var stats domain.SearchStats
	if opts.Parallel && n > 2 {
		best, stats, err = searchParallel(ctx, m, opts, seed)
	} else {
		best = newSearchState(ctx, m, opts, seed, nil)
		best.visit(0, initialVertices(n), 0)
		stats = domain.SearchStats{Nodes: best.nodes, Pruned: best.pruned, Tours: best.tours}
		err = best.aborted
	}
	stats.Duration = time.Since(start)

	metrics.SearchNodes.Add(float64(stats.Nodes))
	metrics.SearchPruned.Add(float64(stats.Pruned))

	if err != nil {
		metrics.SearchDuration.WithLabelValues("aborted").Observe(stats.Duration.Seconds())
		return domain.Tour{}, stats, fmt.Errorf("%w after %d nodes: %w", ErrSearchAborted, stats.Nodes, err)
	}
	metrics.SearchDuration.WithLabelValues("done").Observe(stats.Duration.Seconds())

	tour := domain.Tour{
		Order: append([]int(nil), best.bestPath...),
		Total: best.bestTotal,
	}

	obs.Logger(ctx).WithField("stops", n-1).
		WithField("total", tour.Total).
		WithField("nodes", stats.Nodes).
		WithField("pruned", stats.Pruned).
		Debug("route optimized")

	return tour, stats, nil
}

// searchParallel runs one search per first-level child and merges the
// per-branch incumbents in branch order, which reproduces the sequential
// tie-breaking. Siblings share a best-effort pruning bound.
func searchParallel(
	ctx context.Context,
	m domain.DistanceMatrix,
	opts OptimizeOptions,
	seed float64,
) (*searchState, domain.SearchStats, error) {
	vertices := initialVertices(m.Size())
	shared := newSharedBound(math.Inf(1))
	branches := make([]*searchState, len(vertices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, v := range vertices {
		v := v
		rest := make([]int, 0, len(vertices)-1)
		rest = append(rest, vertices[:i]...)
		rest = append(rest, vertices[i+1:]...)

		st := newSearchState(gctx, m, opts, seed, shared)
		branches[i] = st

		g.Go(func() error {
			st.path = append(st.path, 0)
			st.visit(v, rest, m.At(0, v))
			return st.aborted
		})
	}

	err := g.Wait()

	stats := domain.SearchStats{Nodes: 1}
	var best *searchState
	for _, st := range branches {
		stats.Nodes += st.nodes
		stats.Pruned += st.pruned
		stats.Tours += st.tours
		if best == nil || st.bestTotal < best.bestTotal {
			best = st
		}
	}

	return best, stats, err
}

// initialVertices returns 1..n-1, the stops still to visit from the depot.
func initialVertices(n int) []int {
	out := make([]int, 0, n-1)
	for v := 1; v < n; v++ {
		out = append(out, v)
	}
	return out
}
