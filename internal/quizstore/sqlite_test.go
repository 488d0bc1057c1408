package quizstore

import (
	"path/filepath"
	"testing"

	"github.com/osler/chartquiz/internal/quizgen"
)

func TestSQLiteWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("NewSQLiteWriter: %v", err)
	}
	defer w.Close()

	records := sampleRecords()
	if err := w.Append(records[:1]); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Append(records[1:]); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := w.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d; want 2", len(got))
	}
	if got[0].SourceNoteID == nil || *got[0].SourceNoteID != "n1" {
		t.Fatalf("first record = %+v", got[0])
	}
	if len(got[0].Options) != 2 || got[0].Options[1] != "b" {
		t.Fatalf("first record options = %v", got[0].Options)
	}
	if got[1].SourceNoteID != nil || got[1].Options != nil {
		t.Fatalf("second record = %+v", got[1])
	}
	if got[1].Level != quizgen.LevelChart {
		t.Fatalf("second record level = %q", got[1].Level)
	}
}

func TestSQLiteWriterSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("NewSQLiteWriter: %v", err)
	}
	if err := w.Append(sampleRecords()); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Write-through: rows committed per Append survive reopening, the way
	// partial progress must survive a crash.
	w2, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer w2.Close()
	got, err := w2.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records after reopen = %d; want 2", len(got))
	}
}
