package notes

import (
	"sort"
	"time"
)

// Note is a single clinical document belonging to exactly one patient.
// ChartTime is zero when the source row carried no parseable timestamp;
// HasClock reports whether the timestamp included a time of day (a bare
// chart_date gives a date but no clock).
type Note struct {
	PatientID string
	NoteID    string
	Category  string
	ChartTime time.Time
	HasClock  bool
	Text      string
}

// Timestamped reports whether the note carries a usable timestamp.
func (n Note) Timestamped() bool {
	return !n.ChartTime.IsZero()
}

// Patient groups the ordered notes of one admission. Names are used only
// for prompt rendering, never for identity.
type Patient struct {
	PatientID string
	FirstName string
	LastName  string
	Notes     []Note
}

// DisplayName is the name embedded verbatim in prompts.
func (p Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// SortNotes orders the patient's notes chronologically. Notes without a
// timestamp sort after all dated notes, keeping their relative input order.
func (p *Patient) SortNotes() {
	sort.SliceStable(p.Notes, func(i, j int) bool {
		a, b := p.Notes[i], p.Notes[j]
		if !a.Timestamped() {
			return false
		}
		if !b.Timestamped() {
			return true
		}
		return a.ChartTime.Before(b.ChartTime)
	})
}
