// Package leiden is the public boundary spec.md §6 fixes: three
// entry points (Partition, HierarchicalPartition, Quality) taking
// value-typed Options and opaque string-labelled edges, implementing the
// three-phase Leiden loop over pkg/graph, pkg/cluster, pkg/quality,
// pkg/localmove, pkg/refine and pkg/aggregate.
//
// Grounded on pkg/louvain/louvain.go's RunLouvain/Run: the top-level
// entry point that wires a fresh Config/logger, builds the graph, and
// drives the recursive level loop, generalized to two objectives and the
// trials mechanism spec.md §4.6 adds.
package leiden

import (
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/weftgraph/leiden/pkg/aggregate"
	"github.com/weftgraph/leiden/pkg/cluster"
	"github.com/weftgraph/leiden/pkg/graph"
	"github.com/weftgraph/leiden/pkg/localmove"
	"github.com/weftgraph/leiden/pkg/quality"
	"github.com/weftgraph/leiden/pkg/refine"
	"github.com/weftgraph/leiden/pkg/rng"
)

// Partition implements spec.md §4.6's driver entry point: flat community
// partitioning under the chosen objective, optionally repeated across
// independent trials.
func Partition(edges []Edge, opts Options) (Result, error) {
	if err := validateCommonParameters(opts, false); err != nil {
		return Result{}, err
	}
	kind := qualityKind(opts)
	g, idx, err := buildGraph(edges, kind)
	if err != nil {
		return Result{}, err
	}
	startingAssignment, err := resolveStartingCommunities(idx, opts.StartingCommunities, g.NumNodes)
	if err != nil {
		return Result{}, err
	}

	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()
	logger.Info().Int("nodes", g.NumNodes).Int("trials", opts.Trials).Msg("partition starting")

	masterSeed := seedOrEntropy(opts.Seed)

	qualities := make([]float64, opts.Trials)
	clusterings := make([]*cluster.Clustering, opts.Trials)
	trialStats := make([]Statistics, opts.Trials)

	for trial := 0; trial < opts.Trials; trial++ {
		trialStart := time.Now()
		subSeed := rng.SubSeed(masterSeed, trial)
		r := rng.New(subSeed)

		c, err := cluster.FromAssignment(g, append([]int(nil), startingAssignment...))
		if err != nil {
			return Result{}, newError(InternalInvariant, "starting clustering construction failed", err)
		}
		c = sanitizeDisconnectedCommunities(g, c)

		var levelStats []LevelStats
		final, _ := runLevel(g, c, quality.Kind(kind), opts.Resolution, opts.Randomness, opts.Iterations, r, 0, &levelStats)
		final.Compact()

		f := quality.New(quality.Kind(kind), opts.Resolution, g)
		agg := quality.ComputeAggregates(g, final.NodeToCommunity, final.Cap())

		qualities[trial] = f.Total(agg)
		clusterings[trial] = final

		var totalIterations, totalMoves int
		for _, ls := range levelStats {
			totalIterations += ls.Iterations
			totalMoves += ls.Moves
		}
		trialStats[trial] = Statistics{
			TotalIterations: totalIterations,
			TotalMoves:      totalMoves,
			RuntimeMS:       time.Since(trialStart).Milliseconds(),
			MemoryPeakMB:    getMemoryUsage(),
			LevelStats:      levelStats,
		}

		logger.Debug().Int("trial", trial).Float64("quality", qualities[trial]).Msg("trial complete")
	}

	best := floats.MaxIdx(qualities)
	logger.Info().Int("winning_trial", best).Float64("quality", qualities[best]).
		Int64("runtime_ms", trialStats[best].RuntimeMS).Msg("partition complete")

	assignment := make(map[string]int, g.NumNodes)
	for i := 0; i < g.NumNodes; i++ {
		assignment[idx.ToLabel(i)] = clusterings[best].Community(i)
	}

	return Result{Quality: qualities[best], Assignment: assignment, Statistics: trialStats[best]}, nil
}

// getMemoryUsage reports current heap allocation in megabytes, the same
// runtime.MemStats-based approximation pkg/louvain/algorithm.go uses for
// its own Statistics.MemoryPeakMB.
func getMemoryUsage() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}

// Quality implements spec.md §6 entry point 3: evaluate a caller-supplied
// clustering without running the driver.
func Quality(edges []Edge, assignment map[string]int, opts Options) (float64, error) {
	if opts.Resolution <= 0 {
		return 0, newError(InvalidParameter, "resolution must be > 0", nil)
	}
	kind := qualityKind(opts)
	g, idx, err := buildGraph(edges, kind)
	if err != nil {
		return 0, err
	}
	communityOf, err := resolveStartingCommunities(idx, assignment, g.NumNodes)
	if err != nil {
		return 0, err
	}
	maxID := -1
	for _, id := range communityOf {
		if id > maxID {
			maxID = id
		}
	}
	f := quality.New(quality.Kind(kind), opts.Resolution, g)
	agg := quality.ComputeAggregates(g, communityOf, maxID+1)
	return f.Total(agg), nil
}

// runLevel implements spec.md §4.6's algorithm for one level: a bounded
// local-moving/refinement/aggregation loop that recurses into the
// aggregated graph until the recursive local-moving makes no further
// moves, then unfolds the result back onto g's node set. level is this
// call's aggregation depth (0 for the original graph); each call appends
// one LevelStats entry to stats describing its own local-moving sweeps,
// excluding time spent in deeper recursive levels.
func runLevel(g *graph.Graph, c *cluster.Clustering, kind quality.Kind, resolution, randomness float64, iterations int, r *rng.Source, level int, stats *[]LevelStats) (*cluster.Clustering, bool) {
	levelStart := time.Now()
	f := quality.New(kind, resolution, g)
	initialQuality := f.Total(quality.ComputeAggregates(g, c.NodeToCommunity, c.Cap()))

	improvedOverall := false
	iterCount, moveCount := 0, 0
	var deeperTime time.Duration

	for iterationIndex := 0; iterationIndex < iterations; iterationIndex++ {
		iterCount++
		localImproved, moved := localmove.Run(g, c, f, r)
		moveCount += moved
		if !localImproved && iterationIndex > 0 {
			break
		}
		improvedOverall = improvedOverall || localImproved

		cRef := refine.Run(g, c, f, r, randomness)
		aggResult := aggregate.Build(g, cRef)

		if aggResult.Graph.NumNodes == g.NumNodes {
			// Refinement left every node in its own subcommunity, so
			// aggregation does not coarsen g: no further coarsening is
			// possible at this level.
			if !localImproved {
				break
			}
			continue
		}

		assignment := make([]int, aggResult.Graph.NumNodes)
		for aggID, members := range aggResult.Members {
			assignment[aggID] = c.Community(members[0])
		}
		cPrime, _ := cluster.FromAssignment(aggResult.Graph, assignment)

		deeperStart := time.Now()
		for {
			next, moved := runLevel(aggResult.Graph, cPrime, kind, resolution, randomness, iterations, r, level+1, stats)
			cPrime = next
			if !moved {
				break
			}
		}
		deeperTime += time.Since(deeperStart)

		newAssignment := make([]int, g.NumNodes)
		for i := 0; i < g.NumNodes; i++ {
			aggID := aggResult.Mapping[cRef.Community(i)]
			newAssignment[i] = cPrime.Community(aggID)
		}
		c, _ = cluster.FromAssignment(g, newAssignment)
	}

	finalQuality := f.Total(quality.ComputeAggregates(g, c.NodeToCommunity, c.Cap()))
	*stats = append(*stats, LevelStats{
		Level:          level,
		Iterations:     iterCount,
		Moves:          moveCount,
		InitialQuality: initialQuality,
		FinalQuality:   finalQuality,
		RuntimeMS:      (time.Since(levelStart) - deeperTime).Milliseconds(),
	})

	return c, improvedOverall
}

func seedOrEntropy(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return rng.EntropySeed()
}
