package quizstore

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/osler/chartquiz/internal/quizgen"
)

// Output table column order is fixed.
var columns = []string{"Patient", "Row_ID", "Level", "Difficulty", "Question", "Answer", "Options"}

// NewWriter picks a backend from the output path: .db/.sqlite gets the
// sqlite store, everything else the CSV appender.
func NewWriter(path string) (quizgen.RecordWriter, error) {
	switch {
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		return NewSQLiteWriter(path)
	default:
		return NewCSVWriter(path)
	}
}

// CSVWriter appends validated records to a CSV output table, flushing to
// durable state after every call. The file is opened once per run and
// never reopened or truncated between calls.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output table: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush header: %w", err)
	}
	return &CSVWriter{f: f, w: w}, nil
}

func (c *CSVWriter) Append(records []quizgen.QuestionRecord) error {
	for _, r := range records {
		rowID := ""
		if r.SourceNoteID != nil {
			rowID = *r.SourceNoteID
		}
		row := []string{r.PatientID, rowID, string(r.Level), r.Difficulty, r.Question, r.Answer, encodeOptions(r.Options)}
		if err := c.w.Write(row); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := c.f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}

// encodeOptions serializes the ordered option list as a JSON array, empty
// string when absent.
func encodeOptions(options []string) string {
	if len(options) == 0 {
		return ""
	}
	b, err := json.Marshal(options)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeOptions(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var options []string
	if err := json.Unmarshal([]byte(s), &options); err != nil {
		return nil
	}
	return options
}

// LoadRecords reads a CSV output table back into records, for report
// rendering.
func LoadRecords(path string) ([]quizgen.QuestionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open output table: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(columns)
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var records []quizgen.QuestionRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		r := quizgen.QuestionRecord{
			PatientID:  row[0],
			Level:      quizgen.Level(row[2]),
			Difficulty: row[3],
			Question:   row[4],
			Answer:     row[5],
			Options:    decodeOptions(row[6]),
		}
		if row[1] != "" {
			id := row[1]
			r.SourceNoteID = &id
		}
		records = append(records, r)
	}
	return records, nil
}
