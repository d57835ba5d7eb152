package storage

import (
	"path/filepath"
	"testing"

	"github.com/SeamusWaldron/cubr/pkg/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cubr.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrations(t *testing.T) {
	db := openTestDB(t)

	v, err := db.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if v != LatestVersion() {
		t.Errorf("version = %d, want %d", v, LatestVersion())
	}

	// Applying again is a no-op.
	if err := db.MigrateUp(); err != nil {
		t.Errorf("second MigrateUp: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)

	solved := types.SolvedFaceString()
	id, err := sessions.Create(KindPlay, solved, "practice", "dev")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	s, err := sessions.Get(id)
	if err != nil || s == nil {
		t.Fatalf("Get: %v, %v", s, err)
	}
	if s.Kind != KindPlay || s.StartState != solved || s.EndedAt != nil {
		t.Errorf("fresh session = %+v", s)
	}
	if s.Notes == nil || *s.Notes != "practice" {
		t.Errorf("notes = %v", s.Notes)
	}

	if err := sessions.End(id, solved); err != nil {
		t.Fatalf("End: %v", err)
	}
	s, _ = sessions.Get(id)
	if s.EndedAt == nil || s.DurationMs == nil || s.EndState == nil {
		t.Errorf("ended session = %+v", s)
	}

	last, err := sessions.GetLast()
	if err != nil || last == nil || last.SessionID != id {
		t.Errorf("GetLast = %v, %v", last, err)
	}

	missing, err := sessions.Get("nope")
	if err != nil || missing != nil {
		t.Errorf("missing session = %v, %v", missing, err)
	}
}

func TestMovesRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, err := sessions.Create(KindShuffle, types.SolvedFaceString(), "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	seq, _ := types.ParseMoves("R U R' U2")
	if err := moves.CreateBatch(id, seq[:2], 0, 10, SourceShuffle); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	next, err := moves.GetNextIndex(id)
	if err != nil || next != 2 {
		t.Fatalf("GetNextIndex = %d, %v", next, err)
	}
	for i, m := range seq[2:] {
		if _, err := moves.Create(id, next+i, 20, m, SourceUser); err != nil {
			t.Fatalf("Create move: %v", err)
		}
	}

	records, err := moves.GetBySession(id)
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if got := types.FormatMoves(ToMoves(records)); got != "R U R' U2" {
		t.Errorf("moves = %q", got)
	}
	if records[0].Source != SourceShuffle || records[3].Source != SourceUser {
		t.Errorf("sources = %q, %q", records[0].Source, records[3].Source)
	}

	ranged, _ := moves.GetBySessionRange(id, 0, 20)
	if len(ranged) != 2 {
		t.Errorf("range [0,20) has %d moves", len(ranged))
	}

	if n, _ := sessions.GetMoveCount(id); n != 4 {
		t.Errorf("move count = %d", n)
	}

	// Duplicate index is rejected.
	if _, err := moves.Create(id, 0, 30, seq[0], SourceUser); err == nil {
		t.Error("duplicate move index accepted")
	}

	if err := sessions.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := moves.Count(id); n != 0 {
		t.Errorf("moves survived cascade: %d", n)
	}
}

func TestEvents(t *testing.T) {
	db := openTestDB(t)
	id, _ := NewSessionRepository(db).Create(KindPlay, types.SolvedFaceString(), "", "")
	events := NewEventRepository(db)

	if _, err := events.Create(id, 5, EventShuffle, map[string]int{"count": 25}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := events.Create(id, 9, EventReset, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := events.GetBySession(id)
	if err != nil || len(all) != 2 {
		t.Fatalf("GetBySession = %v, %v", all, err)
	}
	if all[0].PayloadJSON != `{"count":25}` || all[1].PayloadJSON != "{}" {
		t.Errorf("payloads = %q, %q", all[0].PayloadJSON, all[1].PayloadJSON)
	}

	shuffles, _ := events.GetByType(id, EventShuffle)
	if len(shuffles) != 1 {
		t.Errorf("shuffle events = %d", len(shuffles))
	}
}

func TestPhaseSegments(t *testing.T) {
	db := openTestDB(t)
	id, _ := NewSessionRepository(db).Create(KindPlay, types.SolvedFaceString(), "", "")
	phases := NewPhaseRepository(db)

	if _, err := phases.CreatePhaseMark(id, 2000, "up_cross", 8); err != nil {
		t.Fatalf("CreatePhaseMark: %v", err)
	}
	if _, err := phases.CreatePhaseMark(id, 6000, "up_layer", 20); err != nil {
		t.Fatalf("CreatePhaseMark: %v", err)
	}

	segs, err := phases.Segments(id)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("segments = %+v", segs)
	}
	if segs[0].MoveCount != 8 || segs[0].DurationMs != 2000 || segs[0].TPS != 4 {
		t.Errorf("first segment = %+v", segs[0])
	}
	if segs[1].MoveCount != 12 || segs[1].StartTsMs != 2000 || segs[1].TPS != 3 {
		t.Errorf("second segment = %+v", segs[1])
	}
}

func TestSavedStates(t *testing.T) {
	db := openTestDB(t)
	states := NewStateRepository(db)

	solved := types.SolvedFaceString()
	if _, err := states.Save("start", solved, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	const afterR = "UUFUUFUUFRRRRRRRRRFFDFFDFFDDDBDDBDDBLLLLLLLLLUBBUBBUBB"
	if _, err := states.Save("start", afterR, ""); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	if _, err := states.Save("other", solved, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s, err := states.Get("start")
	if err != nil || s == nil || s.FaceString != afterR {
		t.Errorf("Get = %+v, %v", s, err)
	}

	list, _ := states.List()
	if len(list) != 2 || list[0].Name != "other" {
		t.Errorf("List = %+v", list)
	}

	if err := states.Delete("start"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s, _ := states.Get("start"); s != nil {
		t.Error("deleted state still present")
	}
}
