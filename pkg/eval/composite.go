package eval

import (
	"context"
	"sort"

	"github.com/twofortyeight/engine/pkg/board"
)

// component is one active (heuristic, weight) pair in a Composite.
type component struct {
	name string
	fn   Heuristic
	w    float64
}

// Composite weights a set of named heuristics and sums them. Unknown
// heuristic names supplied to New are ignored; if the resulting component
// set is empty, a single emptyTiles component with weight 1000 is
// installed, so that fallback Composite evaluates any board with at least
// one empty cell to a strictly positive value.
type Composite struct {
	components []component
}

// New builds a Composite from Params, dropping unrecognized names (e.g.
// coreScore, which has no implementation -- see DESIGN.md).
func New(params Params) *Composite {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic summation order across Composite instances built from equal Params

	var cs []component
	for _, name := range names {
		if fn, ok := ByName(name); ok {
			cs = append(cs, component{name: name, fn: fn, w: params[name]})
		}
	}
	if len(cs) == 0 {
		fn, _ := ByName("emptyTiles")
		cs = append(cs, component{name: "emptyTiles", fn: fn, w: 1000})
	}
	return &Composite{components: cs}
}

// Evaluate unpacks the state once and returns the weighted sum of active
// components.
func (c *Composite) Evaluate(ctx context.Context, s board.State) Score {
	grid := board.Unpack(s)

	var total Score
	for _, comp := range c.components {
		total += Score(comp.w) * Score(comp.fn(grid))
	}
	return total
}

// Params reconstructs the Params this Composite was built from (used by
// the tuner to report/serialize the active record).
func (c *Composite) Params() Params {
	p := make(Params, len(c.components))
	for _, comp := range c.components {
		p[comp.name] = comp.w
	}
	return p
}
