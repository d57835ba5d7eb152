package analysis

import (
	"testing"

	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// records builds move records from notation, one every gapMs.
func records(t *testing.T, notation string, gapMs int64) []storage.MoveRecord {
	t.Helper()
	moves, invalid := types.ParseMoves(notation)
	if len(invalid) > 0 {
		t.Fatalf("invalid moves %v", invalid)
	}
	out := make([]storage.MoveRecord, len(moves))
	for i, m := range moves {
		out[i] = storage.MoveRecord{
			MoveIndex: i,
			TsMs:      int64(i) * gapMs,
			Face:      string(m.Face),
			Turn:      int(m.Turn),
			Notation:  m.Notation(),
			Source:    storage.SourceUser,
		}
	}
	return out
}

func TestMineNGrams(t *testing.T) {
	recs := records(t, "R U R' U' F R U R' U' F R U R' U'", 100)

	report := MineNGrams(recs, 4, 5, 3)
	fours := report.TopNGrams[4]
	if len(fours) == 0 {
		t.Fatal("no 4-grams found")
	}
	if fours[0].String() != "R U R' U'" || fours[0].Count != 3 {
		t.Errorf("top 4-gram = %q x%d", fours[0].String(), fours[0].Count)
	}
	if occ := fours[0].Occurrences; len(occ) != 3 || occ[1].StartIndex != 5 || occ[1].TsMs != 500 {
		t.Errorf("occurrences = %+v", occ)
	}

	if got := MineNGrams(recs[:2], 4, 5, 3); len(got.TopNGrams) != 0 {
		t.Errorf("short input mined %v", got.TopNGrams)
	}
}

func TestMineNGramsUniqueSequence(t *testing.T) {
	report := MineNGrams(records(t, "R U F D L B", 100), 2, 3, 5)
	if len(report.TopNGrams) != 0 {
		t.Errorf("unique sequence reported repeats: %v", report.TopNGrams)
	}
}

func TestRollingHashMatchesFreshHash(t *testing.T) {
	rolled := NewRollingHash(3)
	for _, tok := range []uint8{1, 2, 3, 4} {
		rolled.Roll(tok)
	}
	fresh := NewRollingHash(3)
	for _, tok := range []uint8{2, 3, 4} {
		fresh.Roll(tok)
	}
	if rolled.Hash() != fresh.Hash() {
		t.Errorf("rolled hash %d != fresh hash %d", rolled.Hash(), fresh.Hash())
	}
}

func TestSummarize(t *testing.T) {
	recs := records(t, "R R U U' F", 500)
	recs[4].TsMs = 4000 // long think before F

	s := Summarize(recs, DefaultPauseMs)
	if s.TotalMoves != 5 || s.SimplifiedMoves != 2 {
		t.Errorf("moves = %d, simplified = %d", s.TotalMoves, s.SimplifiedMoves)
	}
	if s.DurationMs != 4000 || s.TPS != 1.25 {
		t.Errorf("duration = %d, tps = %v", s.DurationMs, s.TPS)
	}
	if s.LongestPauseMs != 2500 || len(s.Pauses) != 1 || s.Pauses[0].AfterMoveIndex != 3 {
		t.Errorf("pauses = %+v longest = %d", s.Pauses, s.LongestPauseMs)
	}
	if s.MostUsedFace != types.FaceU || s.FaceCounts[types.FaceR] != 2 {
		t.Errorf("faces = %v most = %v", s.FaceCounts, s.MostUsedFace)
	}

	if empty := Summarize(nil, DefaultPauseMs); empty.TotalMoves != 0 || empty.TPS != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}
