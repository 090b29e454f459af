package ppttranslator

// Observer receives pipeline events during a run. All callbacks are invoked
// from the goroutine executing Run, in order; implementations must not block
// for long. ShouldStop is polled once per slide and should be cheap.
type Observer interface {
	// OnProgress reports overall completion, clamped to [0, 100] and
	// monotonically non-decreasing within a run.
	OnProgress(percent int)

	// OnStatus reports a coarse human-readable phase change.
	OnStatus(status string)

	// OnLog reports a detailed log line (per-unit source and translation,
	// retry attempts, file paths).
	OnLog(line string)

	// ShouldStop reports whether the caller asked to abort the run.
	ShouldStop() bool
}

// NopObserver discards all events and never requests a stop. It is the
// default when no observer is configured.
type NopObserver struct{}

func (NopObserver) OnProgress(int)   {}
func (NopObserver) OnStatus(string)  {}
func (NopObserver) OnLog(string)     {}
func (NopObserver) ShouldStop() bool { return false }

// RunState identifies the lifecycle phase of a pipeline run.
type RunState int32

const (
	StateIdle RunState = iota
	StateLoading
	StateAnalyzing
	StateTranslating
	StateSaving
	StateCompleted
	StateAborted
	StateFailed
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateAnalyzing:
		return "analyzing"
	case StateTranslating:
		return "translating"
	case StateSaving:
		return "saving"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is an end state of a run.
func (s RunState) Terminal() bool {
	switch s {
	case StateCompleted, StateAborted, StateFailed:
		return true
	default:
		return false
	}
}

// Result summarizes a completed run.
type Result struct {
	// OutputPath is the path of the written presentation.
	OutputPath string

	// Slides is the number of slides in the deck.
	Slides int

	// Units is the number of translatable text units processed.
	Units int
}
