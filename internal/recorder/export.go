package recorder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// Export formats.
const (
	FormatText = "txt"
	FormatJSON = "json"
)

// MoveJSON is one exported move.
type MoveJSON struct {
	MoveIndex int    `json:"move_index"`
	TsMs      int64  `json:"ts_ms"`
	Face      string `json:"face"`
	Turn      int    `json:"turn"`
	Notation  string `json:"notation"`
	Source    string `json:"source"`
}

// FilterSource keeps only records from source. An empty source keeps all.
func FilterSource(records []storage.MoveRecord, source string) []storage.MoveRecord {
	if source == "" {
		return records
	}
	var out []storage.MoveRecord
	for _, r := range records {
		if r.Source == source {
			out = append(out, r)
		}
	}
	return out
}

// ExportMoves renders records as notation text or JSON. With simplify set,
// the text form merges adjacent turns of the same face first.
func ExportMoves(records []storage.MoveRecord, format string, simplify bool) (string, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		moves := storage.ToMoves(records)
		if simplify {
			moves = types.Simplify(moves)
		}
		return types.FormatMoves(moves), nil

	case FormatJSON:
		out := make([]MoveJSON, len(records))
		for i, m := range records {
			out[i] = MoveJSON{
				MoveIndex: m.MoveIndex,
				TsMs:      m.TsMs,
				Face:      m.Face,
				Turn:      m.Turn,
				Notation:  m.Notation,
				Source:    m.Source,
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unknown format: %s (use txt or json)", format)
	}
}
