package guard_test

import (
	"sync"
	"testing"

	"github.com/tangzhangming/ugc/gc"
	"github.com/tangzhangming/ugc/guard"
)

type node struct {
	h    *gc.Header
	refs []*node
}

func TestGuardedSerializesConcurrentStep(t *testing.T) {
	var roots []*node
	var mu sync.Mutex // protects roots from the scan callback's perspective in this test only

	c := gc.NewCollector(
		func(gcc *gc.Collector, hdr *gc.Header) {
			if hdr == nil {
				mu.Lock()
				defer mu.Unlock()
				for _, r := range roots {
					gcc.Visit(r.h)
				}
				return
			}
			n := hdr.Owner().(*node)
			for _, ref := range n.refs {
				gcc.Visit(ref.h)
			}
		},
		func(gcc *gc.Collector, hdr *gc.Header) {},
	)
	g := guard.New(c)

	root := &node{}
	root.h = gc.NewHeader(root)
	g.Register(root.h)
	mu.Lock()
	roots = []*node{root}
	mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g.Step()
			}
		}()
	}
	wg.Wait()

	if g.Stats().Registered != 1 {
		t.Errorf("expected 1 registered object, got %d", g.Stats().Registered)
	}
	if g.GuardStats().Calls == 0 {
		t.Errorf("expected GuardStats to record calls")
	}
}

func TestGuardStatsStartsAtZero(t *testing.T) {
	c := gc.NewCollector(
		func(gcc *gc.Collector, hdr *gc.Header) {},
		func(gcc *gc.Collector, hdr *gc.Header) {},
	)
	g := guard.New(c)
	stats := g.GuardStats()
	if stats.Calls != 0 || stats.Contended != 0 {
		t.Errorf("expected zero-valued GuardStats before any call, got %+v", stats)
	}
}
