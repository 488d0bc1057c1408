package notes

import (
	"sync"
	"time"
)

// DefaultReferenceYear anchors the synthetic timeline all notes are shifted
// onto.
const DefaultReferenceYear = 2018

// Sentinel markers rendered into prompts when a note carries no usable
// timestamp.
const (
	UnknownDate = "unknown date"
	UnknownTime = "unknown time"
)

// Normalizer shifts each patient's notes onto a timeline near the reference
// year. The per-patient year offset is derived once, from the first note
// with a usable timestamp, and never revised for the remainder of the run.
type Normalizer struct {
	referenceYear int

	mu      sync.Mutex
	offsets map[string]int
}

func NewNormalizer(referenceYear int) *Normalizer {
	if referenceYear == 0 {
		referenceYear = DefaultReferenceYear
	}
	return &Normalizer{
		referenceYear: referenceYear,
		offsets:       map[string]int{},
	}
}

// Offset returns the memoized year offset for the patient, computing it
// from the first timestamped note on first call. ok is false when no note
// has a usable timestamp, in which case nothing is cached and a later call
// may still succeed against a different note slice.
func (n *Normalizer) Offset(patientID string, patientNotes []Note) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if off, ok := n.offsets[patientID]; ok {
		return off, true
	}
	for _, note := range patientNotes {
		if note.Timestamped() {
			off := note.ChartTime.Year() - n.referenceYear
			n.offsets[patientID] = off
			return off, true
		}
	}
	return 0, false
}

// Rebase returns the note's effective timestamp on the synthetic timeline.
// ok is false when the note is undated or the patient has no derivable
// offset.
func (n *Normalizer) Rebase(patientID string, patientNotes []Note, note Note) (time.Time, bool) {
	if !note.Timestamped() {
		return time.Time{}, false
	}
	off, ok := n.Offset(patientID, patientNotes)
	if !ok {
		return time.Time{}, false
	}
	return note.ChartTime.AddDate(-off, 0, 0), true
}

// RebasedDate formats the note's effective day, or the unknown-date marker.
func (n *Normalizer) RebasedDate(patientID string, patientNotes []Note, note Note) string {
	t, ok := n.Rebase(patientID, patientNotes, note)
	if !ok {
		return UnknownDate
	}
	return t.Format("2006-01-02")
}

// RebasedClock formats the note's effective clock time, or the unknown-time
// marker when the source row had no time of day.
func (n *Normalizer) RebasedClock(patientID string, patientNotes []Note, note Note) string {
	t, ok := n.Rebase(patientID, patientNotes, note)
	if !ok || !note.HasClock {
		return UnknownTime
	}
	return t.Format("03:04 PM")
}
