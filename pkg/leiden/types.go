package leiden

// Edge is one undirected input edge between two opaque string labels,
// weight > 0. Parallel edges between the same pair are summed
// (spec.md §4.1).
type Edge struct {
	U, V   string
	Weight float64
}

// Options is the value-typed input every public entry point accepts
// directly, so unit tests and an eventual FFI shim never need a
// Config/viper dependency (spec.md §4.2).
type Options struct {
	// Resolution is γ, the resolution parameter; must be > 0.
	Resolution float64
	// Randomness is θ, refinement's proportional-selection temperature;
	// must be > 0.
	Randomness float64
	// Iterations bounds the driver's local-moving/refinement/aggregation
	// loop (spec.md §4.6 step 2); must be >= 1, except that 0 is accepted
	// to mean "adopt starting_communities verbatim, do no optimization"
	// (spec.md §8 scenario 3).
	Iterations int
	// UseModularity selects Modularity (true) or CPM (false).
	UseModularity bool
	// Trials is how many independent, sub-seeded driver runs to perform,
	// keeping the highest-quality result; must be >= 1.
	Trials int
	// MaxClusterSize bounds HierarchicalPartition's recursive split
	// threshold; ignored by Partition/Quality. Must be >= 2 when used.
	MaxClusterSize int
	// Seed is the master random seed. A nil Seed draws one from OS
	// entropy (non-reproducible).
	Seed *uint64
	// StartingCommunities maps a label to a non-negative community id;
	// labels absent from this map start as singletons. A label present
	// here that does not appear in edges is an UnknownLabel error.
	StartingCommunities map[string]int
}

// Result is the output of Partition: the achieved quality, the winning
// label->community-id assignment, and diagnostic run statistics.
type Result struct {
	Quality    float64
	Assignment map[string]int
	Statistics Statistics
}

// Statistics is diagnostic (non-authoritative) output describing how
// Partition's winning trial ran: total runtime, the Go heap allocation in
// MB read when the trial finished (MemoryPeakMB; not a peak value), and a
// breakdown per aggregation level. Grounded on the teacher's
// pkg/louvain/models.go LouvainStats/LevelStats; never consulted by any
// invariant spec.md §8 names.
type Statistics struct {
	TotalIterations int
	TotalMoves      int
	RuntimeMS       int64
	MemoryPeakMB    int64
	LevelStats      []LevelStats
}

// LevelStats describes one aggregation level's contribution to a
// Partition run: how many local-moving iterations it took to converge,
// how many individual node moves those iterations made, the quality at
// the start and end of the level, and how long the level took.
type LevelStats struct {
	Level          int
	Iterations     int
	Moves          int
	InitialQuality float64
	FinalQuality   float64
	RuntimeMS      int64
}

// Record is one (node, level) participation record emitted by
// HierarchicalPartition (spec.md §4.7).
type Record struct {
	Label          string
	CommunityID    int
	Level          int
	ParentCluster  *int
	IsFinalCluster bool
}
