package indexer

// State is the lifecycle state of the index manager.
type State int32

const (
	// StateIdle means no mutation is in flight.
	StateIdle State = iota

	// StateIndexing means articles are being staged.
	StateIndexing

	// StatePublishing means a snapshot swap is in progress.
	StatePublishing

	// StateRebuilding means a full re-vectorization is running.
	StateRebuilding

	// StateFailed means the last publish or rebuild failed. The last
	// good snapshot keeps serving; Rebuild clears the state.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIndexing:
		return "indexing"
	case StatePublishing:
		return "publishing"
	case StateRebuilding:
		return "rebuilding"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
