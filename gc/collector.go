package gc

import "github.com/tangzhangming/ugc/diag"

// State is the collector's current phase.
type State uint8

const (
	Idle State = iota
	Mark
	Sweep
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Mark:
		return "mark"
	case Sweep:
		return "sweep"
	default:
		return "invalid"
	}
}

// Direction selects which side of a store a write barrier repairs.
type Direction uint8

const (
	// Forward grays the child: restores the invariant by making the
	// collector discover the child later.
	Forward Direction = iota
	// Backward regrays the parent: amortizes many stores to one object
	// into a single re-scan.
	Backward
)

// ScanFunc enumerates outgoing references. When obj is nil the callback
// must call Visit on every root; otherwise it must call Visit on every
// reference obj holds. It must be deterministic and must not mutate
// references, register new objects, or call back into Step, Collect, or
// ReleaseAll (spec.md §4.7's callback contracts).
type ScanFunc func(gc *Collector, obj *Header)

// ReleaseFunc is invoked exactly once for every object the collector
// proves unreachable. It must not touch any other managed object.
type ReleaseFunc func(gc *Collector, obj *Header)

// Logger receives phase-transition and diagnostic notifications. A nil
// Logger is valid and silences all of it; see ugclog for a zap-backed
// implementation.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// Stats is a read-only snapshot of collector state, safe to read from any
// goroutine that is not itself driving the collector (see guard.Guarded
// for multi-goroutine embedders).
type Stats struct {
	State      State
	White      uint8
	FromCount  int
	ToCount    int
	Cycles     int64
	Released   int64
	Registered int64
}

// Collector drives one incremental mark-sweep cycle at a time. It is not
// safe for concurrent use — see spec.md §5 and package guard.
type Collector struct {
	set1, set2        Header
	from, to          *Header
	iterator          *Header
	white             uint8
	state             State

	scan    ScanFunc
	release ReleaseFunc
	logger  Logger

	userdata any

	inScan bool
	busy   bool

	cycles     int64
	released   int64
	registered int64
}

// Option configures a Collector at construction time.
type Option func(*Collector)

// WithUserdata attaches an opaque value the embedder can retrieve from
// Collector.Userdata inside a callback. The collector never inspects it.
func WithUserdata(v any) Option {
	return func(gc *Collector) { gc.userdata = v }
}

// WithLogger attaches a Logger for phase-transition and diagnostic
// notifications.
func WithLogger(l Logger) Option {
	return func(gc *Collector) { gc.logger = l }
}

// NewCollector initializes a collector in the Idle state with both sets
// empty and white=0. scan and release must be non-nil.
func NewCollector(scan ScanFunc, release ReleaseFunc, opts ...Option) *Collector {
	if scan == nil || release == nil {
		panic("gc: scan and release callbacks are required")
	}
	c := &Collector{scan: scan, release: release, state: Idle}
	clearRing(&c.set1)
	clearRing(&c.set2)
	c.from = &c.set1
	c.to = &c.set2
	c.iterator = c.to
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnableAssertions toggles debug-mode contract assertions process-wide
// (diag.Enable), mirroring the teacher's SOLA_LSP_DEBUG env convention
// (see UGC_DEBUG). Disabled by default.
func EnableAssertions(on bool) { diag.Enable(on) }

// Userdata returns the opaque value supplied via WithUserdata.
func (gc *Collector) Userdata() any { return gc.userdata }

// State returns the collector's current phase.
func (gc *Collector) State() State { return gc.state }

// Color reports obj's color relative to the current cycle.
func (gc *Collector) Color(obj *Header) Color {
	switch obj.color {
	case gc.white:
		return White
	case grayColor:
		return Gray
	default:
		return Black
	}
}

// Stats returns a snapshot of the collector's bookkeeping counters and set
// sizes. O(n) in the number of registered objects (it walks both rings);
// intended for occasional introspection, not a hot path.
func (gc *Collector) Stats() Stats {
	return Stats{
		State:      gc.state,
		White:      gc.white,
		FromCount:  ringLen(gc.from),
		ToCount:    ringLen(gc.to),
		Cycles:     gc.cycles,
		Released:   gc.released,
		Registered: gc.registered,
	}
}

func ringLen(list *Header) int {
	n := 0
	for itr := list.next; itr != list; itr = itr.next {
		n++
	}
	return n
}

func (gc *Collector) logf(debug bool, format string, args ...any) {
	if gc.logger == nil {
		return
	}
	if debug {
		gc.logger.Debugf(format, args...)
	} else {
		gc.logger.Warnf(format, args...)
	}
}

// enterExclusive guards against re-entrant calls to Step, Collect, or
// ReleaseAll from within a scan or release callback (spec.md §4.7/§9:
// "callbacks must not call step, collect, ... or release_all").
func (gc *Collector) enterExclusive(code diag.Code, what string) func() {
	diag.Assert(!gc.busy, code, "%s called re-entrantly from a callback", what)
	gc.busy = true
	return func() { gc.busy = false }
}

// Register links obj into the from-set as current-white. obj must not
// already be registered.
func (gc *Collector) Register(obj *Header) {
	diag.Assert(obj != nil, diag.NilHeader, "Register called with a nil header")
	diag.Assert(!obj.registered, diag.DoubleRegister, "object registered twice")
	push(gc.from, obj)
	obj.color = gc.white
	obj.registered = true
	gc.registered++
}

// Visit informs the collector of a reference discovered during a scan
// callback. It is only valid while a scan callback is executing; calling
// it otherwise is a contract violation and is asserted, never silently
// ignored (spec.md §9's Open Question resolution — in particular this
// means Visit during Sweep is forbidden, not a benign no-op, because after
// the flip "current-white" denotes survivors and regrading one would
// corrupt the next cycle's starting state).
func (gc *Collector) Visit(obj *Header) {
	diag.Assert(gc.inScan, diag.VisitOutsideScan, "Visit called outside a scan callback")
	diag.Assert(obj != nil, diag.NilHeader, "Visit called with a nil header")
	if obj.color == gc.white {
		gc.makeGray(obj)
	}
}

// WriteBarrier maintains the strong tri-color invariant across a
// reference store from parent to child. It is a no-op outside the trigger
// condition (parent black, child current-white) and is safe to call
// unconditionally in any state — outside Mark it is always a no-op
// (spec.md §4.5), even in Sweep, where objects awaiting release still
// carry the pre-flip white and so read as black.
func (gc *Collector) WriteBarrier(dir Direction, parent, child *Header) {
	diag.Assert(parent != nil && child != nil, diag.NilBarrierArg, "WriteBarrier called with a nil parent or child")
	if gc.state != Mark {
		return
	}
	white := gc.white
	black := 1 - white
	if parent.color == black && child.color == white {
		switch dir {
		case Forward:
			gc.makeGray(child)
		case Backward:
			gc.makeGray(parent)
		}
	}
}

// makeGray moves obj into the to-set and colors it gray, rewinding the
// mark iterator first if obj is the iterator's current position — the
// single subtlest piece of the algorithm (spec.md §9): MARK advances by
// re-reading iterator.next every step specifically so a mid-scan Visit
// that relocates the iterator's target cannot cause an entry to be
// skipped.
func (gc *Collector) makeGray(obj *Header) {
	if obj == gc.iterator {
		gc.iterator = obj.prev
	}
	unlink(obj)
	push(gc.to, obj)
	obj.color = grayColor
}

func (gc *Collector) invokeScan(obj *Header) {
	gc.inScan = true
	defer func() { gc.inScan = false }()
	gc.scan(gc, obj)
}

func (gc *Collector) invokeRelease(obj *Header) {
	gc.release(gc, obj)
	obj.registered = false
	gc.released++
}

// Step performs one bounded unit of collector work. See spec.md §4.2 for
// the full state-machine description; summarized:
//
//   - Idle: scan roots, move to Mark.
//   - Mark: scan one gray object, or — if none remain — rescan roots once
//     more, and if still nothing new, flip (swap sets, invert white) and
//     move to Sweep.
//   - Sweep: release one object, or — if none remain — clear the set and
//     return to Idle.
func (gc *Collector) Step() {
	done := gc.enterExclusive(diag.Reentrancy, "Step")
	defer done()
	gc.step()
}

func (gc *Collector) step() {
	switch gc.state {
	case Idle:
		gc.invokeScan(nil)
		gc.state = Mark
		gc.logf(true, "gc: idle -> mark")

	case Mark:
		to := gc.to
		white := gc.white
		obj := gc.iterator.next
		if obj != to {
			gc.iterator = obj
			obj.color = 1 - white
			gc.invokeScan(obj)
			return
		}
		gc.invokeScan(nil)
		obj = gc.iterator.next
		if obj == to {
			gc.flip(white)
		}

	case Sweep:
		to := gc.to
		obj := gc.iterator
		if obj != to {
			gc.iterator = obj.next
			gc.invokeRelease(obj)
			return
		}
		clearRing(to)
		gc.state = Idle
		gc.cycles++
		gc.logf(true, "gc: sweep -> idle (cycle %d complete)", gc.cycles)
	}
}

// flip swaps the roles of from-set and to-set and inverts the current-white
// bit, turning MARK's black survivors into the new from-set and MARK's
// leftover whites into the new to-set to be swept. This is what makes
// sweep interruption-safe: newly registered objects always land in the new
// from-set under the new white, never in the set being drained.
func (gc *Collector) flip(white uint8) {
	oldFrom := gc.from
	gc.from = gc.to
	gc.to = oldFrom
	gc.white = 1 - white
	gc.iterator = gc.to.next
	gc.state = Sweep
	gc.logf(true, "gc: mark -> sweep (flip, white=%d)", gc.white)
}

// Collect starts a cycle if idle, then steps until idle again. Every
// object unreachable at some point during the call, and not resurrected,
// is released by the time it returns; objects registered during the call
// survive it (spec.md §4.6).
func (gc *Collector) Collect() {
	done := gc.enterExclusive(diag.Reentrancy, "Collect")
	defer done()
	if gc.state == Idle {
		gc.step()
	}
	for gc.state != Idle {
		gc.step()
	}
}

// ReleaseAll releases every currently registered object without running a
// mark phase, for collector shutdown. After it returns the collector's
// sets are empty and it may be reused or discarded (spec.md §4.7).
func (gc *Collector) ReleaseAll() {
	done := gc.enterExclusive(diag.Reentrancy, "ReleaseAll")
	defer done()
	gc.releaseSet(gc.from)
	gc.releaseSet(gc.to)
	gc.iterator = gc.to
	gc.state = Idle
}

func (gc *Collector) releaseSet(set *Header) {
	for itr := set.next; itr != set; {
		next := itr.next
		gc.invokeRelease(itr)
		itr = next
	}
	clearRing(set)
}
