package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// csvNames is the fixed Population CSV column order:
// emptyTiles, monotonicity, smoothness, cornerValue, mergeability,
// patternMatching, coreScore. coreScore is always emitted as a 0-weight
// placeholder since it is never an active component (see DESIGN.md).
var csvNames = []string{"emptyTiles", "monotonicity", "smoothness", "cornerValue", "mergeability", "patternMatching", "coreScore"}

// WritePopulationCSV writes pop (assumed already sorted) to path: two
// header comment lines, then one `name:weight,...,avgScore,maxScore,
// gamesPlayed` line per record.
func WritePopulationCSV(path string, generation int, pop []Record) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# generation %d\n", generation)
	fmt.Fprintf(&sb, "# %s,avgScore,maxScore,gamesPlayed\n", strings.Join(csvNames, ":weight,")+":weight")

	for _, r := range pop {
		var fields []string
		for _, n := range csvNames {
			fields = append(fields, fmt.Sprintf("%s:%g", n, r.Params[n]))
		}
		sb.WriteString(strings.Join(fields, ","))
		fmt.Fprintf(&sb, ",%g,%d,%d\n", r.AvgScore, r.MaxScore, r.GamesPlayed)
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// String formats a ready-to-use configuration dump of the record.
func (r Record) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "best record: avgScore=%.1f maxScore=%d gamesPlayed=%d\n", r.AvgScore, r.MaxScore, r.GamesPlayed)
	sb.WriteString(r.Params.Report())
	return sb.String()
}

// WriteBestText writes the best record's formatted summary to path.
func WriteBestText(path string, best Record) error {
	return os.WriteFile(path, []byte(best.String()), 0644)
}

// WriteBestJSON writes the best record's parameters as two-space-indented
// pretty JSON.
func WriteBestJSON(path string, best Record) error {
	data, err := json.MarshalIndent(best.Params, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
