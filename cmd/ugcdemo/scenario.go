package main

import "github.com/tangzhangming/ugc/gc"

// demoNode is the toy embedder object ugcdemo registers with the
// collector: a name, a header, and a mutable list of references.
type demoNode struct {
	name string
	h    *gc.Header
	refs []*demoNode
}

func newDemoNode(name string) *demoNode {
	n := &demoNode{name: name}
	n.h = gc.NewHeader(n)
	return n
}

// demoGraph bundles a canned object graph with its scan/release callbacks
// and root set, so main can build a Collector without knowing the
// scenario's shape.
type demoGraph struct {
	objects  []*demoNode
	roots    []*demoNode
	released []string
}

func (d *demoGraph) scan(c *gc.Collector, hdr *gc.Header) {
	if hdr == nil {
		for _, r := range d.roots {
			c.Visit(r.h)
		}
		return
	}
	n := hdr.Owner().(*demoNode)
	for _, ref := range n.refs {
		c.Visit(ref.h)
	}
}

func (d *demoGraph) release(c *gc.Collector, hdr *gc.Header) {
	n := hdr.Owner().(*demoNode)
	d.released = append(d.released, n.name)
}

func (d *demoGraph) releasedNames() []string {
	if d.released == nil {
		return []string{}
	}
	return d.released
}

// buildScenario builds one of ugcdemo's canned graphs. Returns nil for an
// unrecognized name.
func buildScenario(name string) *demoGraph {
	switch name {
	case "chain":
		return chainScenario()
	case "cycle":
		return cycleScenario()
	case "fan":
		return fanScenario()
	default:
		return nil
	}
}

// chainScenario: A -> B -> C, root = {A}. Nothing is garbage.
func chainScenario() *demoGraph {
	a, b, c := newDemoNode("A"), newDemoNode("B"), newDemoNode("C")
	a.refs = []*demoNode{b}
	b.refs = []*demoNode{c}
	return &demoGraph{
		objects: []*demoNode{a, b, c},
		roots:   []*demoNode{a},
	}
}

// cycleScenario: A -> B -> A, no roots. Both are garbage despite the
// cycle — tri-color mark-sweep has no trouble with reference cycles,
// unlike naive reference counting.
func cycleScenario() *demoGraph {
	a, b := newDemoNode("A"), newDemoNode("B")
	a.refs = []*demoNode{b}
	b.refs = []*demoNode{a}
	return &demoGraph{
		objects: []*demoNode{a, b},
	}
}

// fanScenario: root R references X, Y, Z; Y also references Z. W is
// unreferenced from the start.
func fanScenario() *demoGraph {
	r := newDemoNode("R")
	x, y, z := newDemoNode("X"), newDemoNode("Y"), newDemoNode("Z")
	w := newDemoNode("W")
	r.refs = []*demoNode{x, y, z}
	y.refs = []*demoNode{z}
	return &demoGraph{
		objects: []*demoNode{r, x, y, z, w},
		roots:   []*demoNode{r},
	}
}
