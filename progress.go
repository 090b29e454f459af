package ppttranslator

// Fixed progress checkpoints. Translation itself advances linearly through
// the span between checkpointAnalyzed and checkpointSaving.
const (
	checkpointLoading  = 5
	checkpointOpened   = 10
	checkpointAnalyzed = 15
	checkpointSaving   = 90
	checkpointNamed    = 95
	checkpointWritten  = 98
	checkpointDone     = 100

	translateFloor = checkpointAnalyzed
	translateSpan  = 70 // translation climbs from 15 to 85
)

// ProgressAccountant turns pipeline phases and per-unit completions into a
// single percent value. Every value it hands out is clamped to [0, 100] and
// never lower than a value handed out earlier, so observers see a monotonic
// sequence regardless of how phases interleave.
type ProgressAccountant struct {
	total     int
	processed int
	high      int
}

// NewProgressAccountant returns an accountant with no units registered yet.
// SetTotal is called once the analysis pass has counted the deck.
func NewProgressAccountant() *ProgressAccountant {
	return &ProgressAccountant{}
}

// SetTotal registers the number of translatable units in the deck.
func (a *ProgressAccountant) SetTotal(total int) {
	a.total = total
}

// Total returns the registered unit count.
func (a *ProgressAccountant) Total() int {
	return a.total
}

// Processed returns how many units have completed so far.
func (a *ProgressAccountant) Processed() int {
	return a.processed
}

// Checkpoint records a fixed phase value and returns the percent to report.
func (a *ProgressAccountant) Checkpoint(value int) int {
	return a.mark(value)
}

// UnitDone records one completed unit and returns the percent to report:
// the translation floor plus the completed fraction of the translation span.
func (a *ProgressAccountant) UnitDone() int {
	a.processed++
	if a.total <= 0 {
		return a.mark(translateFloor)
	}
	return a.mark(translateFloor + translateSpan*a.processed/a.total)
}

// SlideStart records that the slide at index (zero-based) of count is about
// to be processed and returns the percent to report. Decks whose slides carry
// no translatable units still show movement through the span this way.
func (a *ProgressAccountant) SlideStart(index, count int) int {
	if count <= 0 {
		return a.mark(translateFloor)
	}
	return a.mark(translateFloor + translateSpan*index/count)
}

// mark clamps raw to [0, 100], folds it into the high-water mark and returns
// the mark. A late low value can never drag reported progress backwards.
func (a *ProgressAccountant) mark(raw int) int {
	if raw < 0 {
		raw = 0
	}
	if raw > 100 {
		raw = 100
	}
	if raw > a.high {
		a.high = raw
	}
	return a.high
}
