// Package guard serializes embedder calls onto a single gc.Collector.
// spec.md §5 states the collector itself is not safe for concurrent
// mutator access; Guarded is the answer for an embedder with more than
// one goroutine touching the same collector, grounded on
// internal/vm/gc_stw.go's MultiThreadGC — but adapted away from that
// file's actual purpose (coordinating concurrent marking across worker
// goroutines, which spec.md §1 rules out) toward simply mutual-exclusion:
// one call into the collector at a time, no STW handshake, no safe points.
package guard

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tangzhangming/ugc/gc"
)

// Guarded wraps a *gc.Collector with a mutex and records basic contention
// statistics, mirroring the shape of MultiThreadGC.STWStats without any of
// its worker-pool/scheduler machinery.
type Guarded struct {
	mu sync.Mutex
	c  *gc.Collector

	calls       atomic.Int64
	contended   atomic.Int64
	totalWaitNs atomic.Int64
	maxWaitNs   atomic.Int64
}

// New wraps c. c must not be driven directly by any other goroutine once
// wrapped.
func New(c *gc.Collector) *Guarded {
	return &Guarded{c: c}
}

func (g *Guarded) enter() func() {
	start := time.Now()
	locked := g.mu.TryLock()
	if !locked {
		g.contended.Add(1)
		g.mu.Lock()
	}
	wait := time.Since(start).Nanoseconds()
	g.calls.Add(1)
	g.totalWaitNs.Add(wait)
	for {
		cur := g.maxWaitNs.Load()
		if wait <= cur || g.maxWaitNs.CAS(cur, wait) {
			break
		}
	}
	return g.mu.Unlock
}

// Step serializes gc.Collector.Step.
func (g *Guarded) Step() {
	done := g.enter()
	defer done()
	g.c.Step()
}

// Collect serializes gc.Collector.Collect.
func (g *Guarded) Collect() {
	done := g.enter()
	defer done()
	g.c.Collect()
}

// ReleaseAll serializes gc.Collector.ReleaseAll.
func (g *Guarded) ReleaseAll() {
	done := g.enter()
	defer done()
	g.c.ReleaseAll()
}

// Register serializes gc.Collector.Register.
func (g *Guarded) Register(obj *gc.Header) {
	done := g.enter()
	defer done()
	g.c.Register(obj)
}

// WriteBarrier serializes gc.Collector.WriteBarrier.
func (g *Guarded) WriteBarrier(dir gc.Direction, parent, child *gc.Header) {
	done := g.enter()
	defer done()
	g.c.WriteBarrier(dir, parent, child)
}

// Stats serializes gc.Collector.Stats.
func (g *Guarded) Stats() gc.Stats {
	done := g.enter()
	defer done()
	return g.c.Stats()
}

// GuardStats reports how much contention embedder goroutines have
// experienced acquiring the guard, mirroring MultiThreadGC.STWStats.
type GuardStats struct {
	Calls       int64
	Contended   int64
	TotalWaitNs int64
	MaxWaitNs   int64
	AvgWaitNs   int64
}

// GuardStats returns a snapshot of contention counters.
func (g *Guarded) GuardStats() GuardStats {
	calls := g.calls.Load()
	total := g.totalWaitNs.Load()
	var avg int64
	if calls > 0 {
		avg = total / calls
	}
	return GuardStats{
		Calls:       calls,
		Contended:   g.contended.Load(),
		TotalWaitNs: total,
		MaxWaitNs:   g.maxWaitNs.Load(),
		AvgWaitNs:   avg,
	}
}
