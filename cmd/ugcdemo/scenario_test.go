package main

import (
	"testing"

	"github.com/tangzhangming/ugc/gc"
)

func TestBuildScenarioKnownNames(t *testing.T) {
	for _, name := range []string{"chain", "cycle", "fan"} {
		if buildScenario(name) == nil {
			t.Errorf("buildScenario(%q) = nil, want a graph", name)
		}
	}
}

func TestBuildScenarioUnknownName(t *testing.T) {
	if buildScenario("nonexistent") != nil {
		t.Errorf("buildScenario(\"nonexistent\") = non-nil, want nil")
	}
}

func TestChainScenarioHasNoGarbage(t *testing.T) {
	g := chainScenario()
	if len(g.objects) != 3 {
		t.Errorf("expected 3 objects, got %d", len(g.objects))
	}
	if len(g.roots) != 1 {
		t.Errorf("expected 1 root, got %d", len(g.roots))
	}

	c := gc.NewCollector(g.scan, g.release)
	for _, o := range g.objects {
		c.Register(o.h)
	}
	c.Collect()
	if released := g.releasedNames(); len(released) != 0 {
		t.Errorf("expected no releases in the chain scenario, got %v", released)
	}
}

func TestCycleScenarioHasNoRoots(t *testing.T) {
	g := cycleScenario()
	if len(g.roots) != 0 {
		t.Errorf("expected 0 roots in the cycle scenario, got %d", len(g.roots))
	}
}
