package tailor

import (
	"sync"

	"github.com/jobtailor/jobtailor/internal/errs"
)

// State is one stage of the tailoring pipeline for a (resume, job) pair.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateScoring    State = "scoring"
	StateGenerating State = "generating"
	StatePersisting State = "persisting"
	StateComplete   State = "complete"
	StateFailed     State = "failed"
)

// flightTable tracks in-progress pipeline runs keyed by (resume, job).
// A second run for a key that is already in flight is rejected with a
// conflict instead of queued; nothing ever blocks on another run.
type flightTable struct {
	mu     sync.Mutex
	active map[string]State
}

func newFlightTable() *flightTable {
	return &flightTable{active: make(map[string]State)}
}

func flightKey(resumeID, jobID string) string {
	return resumeID + "|" + jobID
}

// begin claims the key, failing with a conflict when a run for the same
// pair is already in flight.
func (t *flightTable) begin(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.active[key]; ok {
		return errs.Conflict("a run for this resume and job is already in progress")
	}
	t.active[key] = StateExtracting
	return nil
}

// transition moves an in-flight run to the given stage.
func (t *flightTable) transition(key string, s State) {
	t.mu.Lock()
	t.active[key] = s
	t.mu.Unlock()
}

// end releases the key. Terminal outcomes always release; a completed or
// failed pair can be re-run immediately.
func (t *flightTable) end(key string) {
	t.mu.Lock()
	delete(t.active, key)
	t.mu.Unlock()
}

// state reports the current stage for the key, or Idle when nothing is in
// flight.
func (t *flightTable) state(key string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.active[key]; ok {
		return s
	}
	return StateIdle
}

// lockTable hands out one mutex per key and reclaims it once the last
// holder releases. Runs for different jobs in the same lineage proceed in
// parallel everywhere except the span guarded by the lineage-root key,
// where the version-number read and the persisting commit must not
// interleave.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*lockEntry)}
}

func (t *lockTable) lock(key string) {
	t.mu.Lock()
	e, ok := t.locks[key]
	if !ok {
		e = &lockEntry{}
		t.locks[key] = e
	}
	e.refs++
	t.mu.Unlock()
	e.mu.Lock()
}

func (t *lockTable) unlock(key string) {
	t.mu.Lock()
	e := t.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(t.locks, key)
	}
	t.mu.Unlock()
	e.mu.Unlock()
}
