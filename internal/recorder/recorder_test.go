package recorder

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubr/internal/cube"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setup(t *testing.T) (*Session, *storage.DB, *CheckpointStore, *fakeClock) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "cubr.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cp, err := OpenCheckpoint(filepath.Join(dir, "checkpoint.yaml"))
	if err != nil {
		t.Fatalf("OpenCheckpoint: %v", err)
	}

	clock := &fakeClock{t: time.Date(2025, 4, 6, 12, 0, 0, 0, time.UTC)}
	return NewSession(db, cp, WithClock(clock.now)), db, cp, clock
}

func parse(t *testing.T, s string) []types.Move {
	t.Helper()
	moves, invalid := types.ParseMoves(s)
	if len(invalid) > 0 {
		t.Fatalf("invalid moves %v", invalid)
	}
	return moves
}

func TestStartEnd(t *testing.T) {
	s, db, ck, _ := setup(t)

	if err := s.End(types.SolvedFaceString()); !errors.Is(err, ErrNotRecording) {
		t.Errorf("End before Start: %v", err)
	}

	id, err := s.Start(storage.KindPlay, types.SolvedFaceString(), "", "test")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := ck.Get().OpenSession; got != id {
		t.Errorf("checkpoint open session = %q", got)
	}
	if _, err := s.Start(storage.KindPlay, types.SolvedFaceString(), "", ""); !errors.Is(err, ErrRecording) {
		t.Errorf("second Start: %v", err)
	}

	for _, m := range parse(t, "R U") {
		if err := s.RecordMove(m); err != nil {
			t.Fatalf("RecordMove: %v", err)
		}
	}
	if s.MoveCount() != 2 {
		t.Errorf("MoveCount = %d", s.MoveCount())
	}

	if err := s.End("end-state"); err != nil {
		t.Fatalf("End: %v", err)
	}
	if cp := ck.Get(); s.State() != StateEnded || cp.OpenSession != "" || cp.LastCube != "end-state" {
		t.Errorf("after End: state=%v checkpoint=%+v", s.State(), cp)
	}

	// Moves after the session ends are ignored.
	if err := s.RecordMove(parse(t, "F")[0]); err != nil {
		t.Errorf("RecordMove after End: %v", err)
	}
	if n, _ := storage.NewMoveRepository(db).Count(id); n != 2 {
		t.Errorf("stored moves = %d", n)
	}
}

func TestPhaseMarks(t *testing.T) {
	s, db, _, clock := setup(t)

	start := cube.New()
	start.ApplyMoves(parse(t, "D"))

	var reached []cube.Phase
	s.SetPhaseCallback(func(p cube.Phase) { reached = append(reached, p) })

	id, err := s.Start(storage.KindPlay, start.FaceString(), "", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	clock.advance(1500 * time.Millisecond)
	if err := s.RecordMove(parse(t, "D'")[0]); err != nil {
		t.Fatalf("RecordMove: %v", err)
	}

	if len(reached) != 1 || reached[0] != cube.PhaseSolved {
		t.Fatalf("reached = %v", reached)
	}
	marks, err := storage.NewPhaseRepository(db).GetPhaseMarks(id)
	if err != nil || len(marks) != 1 {
		t.Fatalf("marks = %v, %v", marks, err)
	}
	if marks[0].PhaseKey != "solved" || marks[0].TsMs != 1500 || marks[0].MoveIndex != 1 {
		t.Errorf("mark = %+v", marks[0])
	}
}

func TestShuffleMovesNotMarked(t *testing.T) {
	s, db, _, _ := setup(t)
	id, _ := s.Start(storage.KindPlay, types.SolvedFaceString(), "", "")

	s.SetSource(storage.SourceShuffle)
	if err := s.RecordMove(parse(t, "R")[0]); err != nil {
		t.Fatalf("RecordMove: %v", err)
	}
	s.SetSource(storage.SourceUser)
	if err := s.RecordMove(parse(t, "R'")[0]); err != nil {
		t.Fatalf("RecordMove: %v", err)
	}

	records, _ := storage.NewMoveRepository(db).GetBySession(id)
	if len(records) != 2 || records[0].Source != storage.SourceShuffle || records[1].Source != storage.SourceUser {
		t.Fatalf("records = %+v", records)
	}
	marks, _ := storage.NewPhaseRepository(db).GetPhaseMarks(id)
	if len(marks) != 1 || marks[0].PhaseKey != "solved" {
		t.Errorf("marks = %+v", marks)
	}
}

func TestRecordEvent(t *testing.T) {
	s, db, _, _ := setup(t)

	if err := s.RecordEvent(storage.EventShuffle, nil); err != nil {
		t.Errorf("event while idle: %v", err)
	}

	id, _ := s.Start(storage.KindPlay, types.SolvedFaceString(), "", "")
	if err := s.RecordEvent(storage.EventShuffle, map[string]int{"count": 25}); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	events, _ := storage.NewEventRepository(db).GetBySession(id)
	if len(events) != 1 || events[0].EventType != storage.EventShuffle {
		t.Errorf("events = %+v", events)
	}
}

func TestResume(t *testing.T) {
	s, db, ck, _ := setup(t)
	id, _ := s.Start(storage.KindPlay, types.SolvedFaceString(), "", "")
	for _, m := range parse(t, "R U") {
		s.RecordMove(m)
	}

	// A fresh process picks the open session back up.
	s2 := NewSession(db, ck)
	if err := s2.Resume(ck.Get().OpenSession); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s2.SessionID() != id || s2.MoveCount() != 2 || s2.State() != StateRecording {
		t.Errorf("resumed id=%q count=%d state=%v", s2.SessionID(), s2.MoveCount(), s2.State())
	}
	if err := s2.RecordMove(parse(t, "U'")[0]); err != nil {
		t.Fatalf("RecordMove: %v", err)
	}

	if err := s2.Resume("missing"); err == nil {
		t.Error("Resume of unknown session should fail")
	}
}

func TestExportMoves(t *testing.T) {
	records := []storage.MoveRecord{
		{MoveIndex: 0, Face: "R", Turn: 1, Notation: "R", Source: storage.SourceShuffle},
		{MoveIndex: 1, Face: "R", Turn: 1, Notation: "R", Source: storage.SourceUser},
		{MoveIndex: 2, Face: "U", Turn: -1, Notation: "U'", Source: storage.SourceUser},
	}

	txt, err := ExportMoves(records, FormatText, false)
	if err != nil || txt != "R R U'" {
		t.Errorf("txt = %q, %v", txt, err)
	}
	txt, _ = ExportMoves(records, FormatText, true)
	if txt != "R2 U'" {
		t.Errorf("simplified = %q", txt)
	}
	txt, _ = ExportMoves(FilterSource(records, storage.SourceUser), FormatText, false)
	if txt != "R U'" {
		t.Errorf("user only = %q", txt)
	}

	js, err := ExportMoves(records, FormatJSON, false)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded []MoveJSON
	if err := json.Unmarshal([]byte(js), &decoded); err != nil || len(decoded) != 3 || decoded[2].Notation != "U'" {
		t.Errorf("decoded = %+v, %v", decoded, err)
	}

	if _, err := ExportMoves(records, "csv", false); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestCheckpointPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.yaml")
	cp, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatalf("OpenCheckpoint: %v", err)
	}
	if got := cp.Get(); got != (Checkpoint{}) {
		t.Errorf("fresh checkpoint = %+v", got)
	}

	err = cp.Update(func(c *Checkpoint) {
		c.DBPath = "/tmp/x.db"
		c.LastCube = types.SolvedFaceString()
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	again, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := again.Get()
	if got.DBPath != "/tmp/x.db" || got.LastCube != types.SolvedFaceString() || got.SavedAt.IsZero() {
		t.Errorf("reopened = %+v", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestCheckpointFailedWriteKeepsState(t *testing.T) {
	cp, err := OpenCheckpoint(filepath.Join(t.TempDir(), "missing", "checkpoint.yaml"))
	if err != nil {
		t.Fatalf("OpenCheckpoint: %v", err)
	}
	if err := cp.Update(func(c *Checkpoint) { c.OpenSession = "abc" }); err == nil {
		t.Fatal("write into a missing directory succeeded")
	}
	if got := cp.Get().OpenSession; got != "" {
		t.Errorf("open session = %q after failed write", got)
	}
}

func TestCheckpointRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.yaml")
	if err := os.WriteFile(path, []byte("db_path: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenCheckpoint(path); err == nil {
		t.Error("malformed checkpoint accepted")
	}
}

func TestExpectTagsQueuedMoves(t *testing.T) {
	s, db, _, _ := setup(t)
	id, _ := s.Start(storage.KindPlay, types.SolvedFaceString(), "", "")

	shuffle := parse(t, "R U")
	s.Expect(storage.SourceShuffle, shuffle)

	// The engine dispatches the shuffle, then the user undoes it.
	for _, m := range parse(t, "R U U' R'") {
		if err := s.RecordMove(m); err != nil {
			t.Fatalf("RecordMove: %v", err)
		}
	}

	records, _ := storage.NewMoveRepository(db).GetBySession(id)
	want := []string{storage.SourceShuffle, storage.SourceShuffle, storage.SourceUser, storage.SourceUser}
	for i, r := range records {
		if r.Source != want[i] {
			t.Errorf("move %d source = %q, want %q", i, r.Source, want[i])
		}
	}
	marks, _ := storage.NewPhaseRepository(db).GetPhaseMarks(id)
	if len(marks) == 0 || marks[len(marks)-1].PhaseKey != "solved" {
		t.Errorf("marks = %+v", marks)
	}

	s.Expect(storage.SourceSolution, parse(t, "F"))
	s.ClearExpected()
	s.RecordMove(parse(t, "F")[0])
	records, _ = storage.NewMoveRepository(db).GetBySession(id)
	if got := records[len(records)-1].Source; got != storage.SourceUser {
		t.Errorf("cleared expectation still applied: %q", got)
	}
}
