package eval

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Params is a mapping from heuristic name to floating weight. Weights are
// not normalized by the evaluator; the tuner normalizes to sum 1000 only
// when mutating (see pkg/sim).
type Params map[string]float64

// Presets are the named constant parameter sets shipped with the engine.
var Presets = map[string]Params{
	"standard": {"emptyTiles": 250, "monotonicity": 250, "smoothness": 250, "cornerValue": 250},
	"combined": {"emptyTiles": 250, "monotonicity": 250, "smoothness": 250, "cornerValue": 250},
	"corner":   {"cornerValue": 1000},
	"merge":    {"mergeability": 1000},
	"pattern":  {"patternMatching": 1000},
	"balanced": {"emptyTiles": 200, "monotonicity": 200, "smoothness": 200, "cornerValue": 200, "patternMatching": 200},
	"empty":    {"emptyTiles": 1000},
	"best":     {"emptyTiles": 427, "monotonicity": 12, "smoothness": 29, "cornerValue": 67, "patternMatching": 186},
}

// PresetNames returns the sorted list of known preset names.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Preset returns the named preset, or "standard" if the name is unknown.
func Preset(name string) Params {
	if p, ok := Presets[name]; ok {
		return p
	}
	return Presets["standard"]
}

// UnmarshalJSON accepts both numbers and quoted numbers for weight values,
// and silently ignores unknown keys -- there are none to ignore here since
// Params has no fixed key set at the JSON layer; ByName() is what filters
// unrecognized heuristic names when a Composite is built from Params.
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Params, len(raw))
	for k, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			out[k] = f
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				out[k] = f
				continue
			}
		}
		return fmt.Errorf("eval: invalid weight for %q", k)
	}
	*p = out
	return nil
}

// Report formats a component/weight/percentage table for diagnostic
// logging and CLI summaries.
func (p Params) Report() string {
	var total float64
	for _, w := range p {
		total += w
	}

	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)

	out := "eval parameters:\n"
	for _, n := range names {
		w := p[n]
		pct := 0.0
		if total > 0 {
			pct = 100 * w / total
		}
		out += fmt.Sprintf("  %-16s %8.2f  (%5.1f%%)\n", n, w, pct)
	}
	return out
}
