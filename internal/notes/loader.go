package notes

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Timestamp layouts accepted from the input table, tried in order. The
// chart_time column carries a clock; chart_date is a bare day.
var (
	clockLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"}
	dateLayouts  = []string{"2006-01-02"}
)

// Load reads the notes table and returns patients in first-seen order,
// each with its notes sorted chronologically (undated notes last).
// Required columns: patient_id, note_id, category, chart_date, chart_time,
// first_name, last_name, text. Column order does not matter.
func Load(path string) ([]*Patient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open notes table: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses the notes table from r. See Load.
func Read(r io.Reader) ([]*Patient, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"patient_id", "note_id", "category", "first_name", "last_name", "text"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("notes table missing column %q", required)
		}
	}

	byID := map[string]*Patient{}
	var order []*Patient
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		pid := strings.TrimSpace(field("patient_id"))
		if pid == "" {
			continue
		}
		note := Note{
			PatientID: pid,
			NoteID:    strings.TrimSpace(field("note_id")),
			Category:  strings.TrimSpace(field("category")),
			Text:      field("text"),
		}
		note.ChartTime, note.HasClock = parseTimestamp(field("chart_time"), field("chart_date"))

		p, ok := byID[pid]
		if !ok {
			p = &Patient{
				PatientID: pid,
				FirstName: strings.TrimSpace(field("first_name")),
				LastName:  strings.TrimSpace(field("last_name")),
			}
			byID[pid] = p
			order = append(order, p)
		}
		p.Notes = append(p.Notes, note)
	}

	for _, p := range order {
		p.SortNotes()
	}
	return order, nil
}

// parseTimestamp prefers chart_time (date plus clock) and falls back to
// chart_date. Unparseable values degrade to a zero time; the caller renders
// those as "unknown date" / "unknown time" rather than failing the row.
func parseTimestamp(chartTime, chartDate string) (time.Time, bool) {
	if s := strings.TrimSpace(chartTime); s != "" {
		for _, layout := range clockLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	if s := strings.TrimSpace(chartDate); s != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, false
			}
		}
	}
	return time.Time{}, false
}
