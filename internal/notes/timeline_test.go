package notes

import (
	"testing"
	"time"
)

func datedNote(id string, ts string) Note {
	t, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		panic(err)
	}
	return Note{NoteID: id, ChartTime: t, HasClock: true}
}

func TestOffsetFromFirstTimestampedNote(t *testing.T) {
	n := NewNormalizer(2018)
	patientNotes := []Note{
		{NoteID: "n0"}, // undated, skipped
		datedNote("n1", "2021-06-15 14:30:00"),
		datedNote("n2", "2023-01-01 09:00:00"),
	}
	off, ok := n.Offset("p1", patientNotes)
	if !ok || off != 3 {
		t.Fatalf("Offset = %d, %v; want 3, true", off, ok)
	}
}

func TestOffsetMemoizationIsIdempotent(t *testing.T) {
	n := NewNormalizer(2018)
	patientNotes := []Note{datedNote("n1", "2021-06-15 14:30:00")}
	first, ok := n.Offset("p1", patientNotes)
	if !ok {
		t.Fatal("expected offset")
	}
	// A different note slice must not revise the cached offset.
	second, ok := n.Offset("p1", []Note{datedNote("nX", "1999-01-01 00:00:00")})
	if !ok || second != first {
		t.Fatalf("re-derived offset = %d; want %d", second, first)
	}
}

func TestRebaseShiftsByOffsetYears(t *testing.T) {
	n := NewNormalizer(2018)
	note := datedNote("n1", "2021-06-15 14:30:00")
	patientNotes := []Note{note}
	got, ok := n.Rebase("p1", patientNotes, note)
	if !ok {
		t.Fatal("expected rebase")
	}
	want := time.Date(2018, 6, 15, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("rebased = %v; want %v", got, want)
	}
	if d := n.RebasedDate("p1", patientNotes, note); d != "2018-06-15" {
		t.Fatalf("RebasedDate = %q", d)
	}
	if c := n.RebasedClock("p1", patientNotes, note); c != "02:30 PM" {
		t.Fatalf("RebasedClock = %q", c)
	}
}

func TestUndatedNoteYieldsUnknownMarkers(t *testing.T) {
	n := NewNormalizer(2018)
	undated := Note{NoteID: "n0"}
	patientNotes := []Note{undated, datedNote("n1", "2020-03-01 08:00:00")}
	if d := n.RebasedDate("p1", patientNotes, undated); d != UnknownDate {
		t.Fatalf("RebasedDate = %q; want %q", d, UnknownDate)
	}
	if c := n.RebasedClock("p1", patientNotes, undated); c != UnknownTime {
		t.Fatalf("RebasedClock = %q; want %q", c, UnknownTime)
	}
}

func TestDateOnlyNoteHasUnknownClock(t *testing.T) {
	n := NewNormalizer(2018)
	note := Note{NoteID: "n1", ChartTime: time.Date(2019, 2, 3, 0, 0, 0, 0, time.UTC)}
	patientNotes := []Note{note}
	if d := n.RebasedDate("p1", patientNotes, note); d != "2018-02-03" {
		t.Fatalf("RebasedDate = %q", d)
	}
	if c := n.RebasedClock("p1", patientNotes, note); c != UnknownTime {
		t.Fatalf("RebasedClock = %q; want %q", c, UnknownTime)
	}
}

func TestPatientWithNoTimestampsHasNoOffset(t *testing.T) {
	n := NewNormalizer(2018)
	if _, ok := n.Offset("p1", []Note{{NoteID: "n0"}, {NoteID: "n1"}}); ok {
		t.Fatal("expected no offset")
	}
}
