package quizgen

// Level tags which unit a QuestionRecord was generated from.
type Level string

const (
	LevelNote  Level = "Note"
	LevelChart Level = "Chart"
)

// GeneratedQuestion is one entry of a validated "Questions" array, before
// provenance stamping. Difficulty is carried verbatim from the generator;
// only its presence is enforced. Options is nil unless the generator
// emitted a multiple-choice list.
type GeneratedQuestion struct {
	Question   string
	Answer     string
	Difficulty string
	Options    []string
}

// QuestionRecord is the unit of output. SourceNoteID is nil for
// chart-level records. A QuestionRecord only ever exists for generator
// output that passed both validation stages.
type QuestionRecord struct {
	PatientID    string
	SourceNoteID *string
	Level        Level
	Difficulty   string
	Question     string
	Answer       string
	Options      []string
}

// RecordWriter receives validated records as they are produced. Append must
// leave the rows durable before returning; it is called once per note plus
// once per chart and must never truncate earlier output.
type RecordWriter interface {
	Append(records []QuestionRecord) error
	Close() error
}
