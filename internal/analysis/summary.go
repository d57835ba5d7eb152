// Package analysis summarizes recorded sessions: pace, pauses, face usage
// and repeated move sequences.
package analysis

import (
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// DefaultPauseMs is the gap between moves counted as a pause.
const DefaultPauseMs = 1500

// Summary contains statistics for one session's moves.
type Summary struct {
	TotalMoves      int                `json:"total_moves"`
	SimplifiedMoves int                `json:"simplified_moves"`
	Efficiency      float64            `json:"efficiency"`
	DurationMs      int64              `json:"duration_ms"`
	TPS             float64            `json:"tps"`
	AvgMoveGapMs    float64            `json:"avg_move_gap_ms"`
	LongestPauseMs  int64              `json:"longest_pause_ms"`
	Pauses          []PauseInfo        `json:"pauses,omitempty"`
	FaceCounts      map[types.Face]int `json:"face_counts"`
	MostUsedFace    types.Face         `json:"most_used_face,omitempty"`
}

// PauseInfo is a gap between two moves.
type PauseInfo struct {
	AfterMoveIndex int   `json:"after_move_index"`
	DurationMs     int64 `json:"duration_ms"`
	TsMs           int64 `json:"ts_ms"`
}

// Summarize computes statistics over records, which must be in move order.
// Gaps of at least pauseMs count as pauses.
func Summarize(records []storage.MoveRecord, pauseMs int64) Summary {
	s := Summary{
		TotalMoves: len(records),
		FaceCounts: make(map[types.Face]int),
	}
	if len(records) == 0 {
		return s
	}

	moves := storage.ToMoves(records)
	s.SimplifiedMoves = len(types.Simplify(moves))
	s.Efficiency = float64(s.SimplifiedMoves) / float64(s.TotalMoves)

	s.DurationMs = records[len(records)-1].TsMs - records[0].TsMs
	s.TPS = CalculateTPS(len(records), s.DurationMs)
	if len(records) > 1 {
		s.AvgMoveGapMs = float64(s.DurationMs) / float64(len(records)-1)
	}

	s.Pauses = FindPauses(records, pauseMs)
	for i := 1; i < len(records); i++ {
		if gap := records[i].TsMs - records[i-1].TsMs; gap > s.LongestPauseMs {
			s.LongestPauseMs = gap
		}
	}

	for _, m := range moves {
		s.FaceCounts[m.Face]++
	}
	best := 0
	// Ties go to the earlier face in face-string order.
	for _, f := range types.FaceOrder {
		face := types.Face(string(f))
		if n := s.FaceCounts[face]; n > best {
			best = n
			s.MostUsedFace = face
		}
	}
	return s
}

// FindPauses returns every gap of at least thresholdMs.
func FindPauses(records []storage.MoveRecord, thresholdMs int64) []PauseInfo {
	var pauses []PauseInfo
	for i := 1; i < len(records); i++ {
		gap := records[i].TsMs - records[i-1].TsMs
		if gap >= thresholdMs {
			pauses = append(pauses, PauseInfo{
				AfterMoveIndex: records[i-1].MoveIndex,
				DurationMs:     gap,
				TsMs:           records[i-1].TsMs,
			})
		}
	}
	return pauses
}

// CalculateTPS returns turns per second.
func CalculateTPS(moves int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(moves) / (float64(durationMs) / 1000.0)
}
