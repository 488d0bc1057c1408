package quizgen

import (
	"fmt"
	"strings"

	"github.com/osler/chartquiz/internal/notes"
)

const schemaInstructions = `Please generate up to three questions, with varying levels of difficulty. ` +
	`Easy questions should be answerable as true/false, Moderate questions should be multiple choice ` +
	`(include an "Options" list of the answer choices), and Difficult questions should require a short ` +
	`free-text answer. Each question should be self-contained, that is, contain information about the ` +
	`patient it's asking about and the date and approximate time of the information it's requesting. ` +
	`Your output should contain a clean JSON data structure (Do not include markdown, labels, or code ` +
	`fences), using the following schema: ` +
	`{ "Questions": [{"Question": <question text>, "Answer": <expected answer>, "Difficulty": <Easy, Moderate, or Difficult>, "Options": <answer choices, multiple choice only>}, ...] }.`

// NotePrompt renders the generation request for a single note. The re-dated
// day and clock come from the normalizer; undated notes carry the literal
// unknown markers.
func NotePrompt(p *notes.Patient, norm *notes.Normalizer, note notes.Note) string {
	noteDate := norm.RebasedDate(p.PatientID, p.Notes, note)
	noteTime := norm.RebasedClock(p.PatientID, p.Notes, note)
	return fmt.Sprintf(
		"The following is a clinical note of type %s for a patient named %s written on %s at %s. "+
			"We are using these notes to generate a dataset of questions and answers that we will use to "+
			"quiz medical students in understanding patient charts. %s "+
			"Here is the text of the note: <note> %s </note>",
		note.Category, p.DisplayName(), noteDate, noteTime, schemaInstructions, note.Text,
	)
}

// ChartPrompt renders the generation request for a patient's full chart:
// every note in chronological order, delimited so note boundaries stay
// explicit.
func ChartPrompt(p *notes.Patient, norm *notes.Normalizer) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"The following is the full chart of clinical notes for a patient named %s who was admitted to "+
			"an intensive care unit (ICU) for treatment. The notes are in chronological order and each note "+
			"is delimited by <note> tags. We are using these charts to generate a dataset of questions and "+
			"answers that we will use to quiz medical students in understanding patient charts. %s\n",
		p.DisplayName(), schemaInstructions,
	)
	for _, note := range p.Notes {
		fmt.Fprintf(&b,
			"<note> This is a clinical note of type %s written on %s at %s: %s </note>\n",
			note.Category,
			norm.RebasedDate(p.PatientID, p.Notes, note),
			norm.RebasedClock(p.PatientID, p.Notes, note),
			note.Text,
		)
	}
	return b.String()
}
