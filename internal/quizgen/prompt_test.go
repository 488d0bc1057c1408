package quizgen

import (
	"strings"
	"testing"
	"time"

	"github.com/osler/chartquiz/internal/notes"
)

func testPatient() *notes.Patient {
	return &notes.Patient{
		PatientID: "p1",
		FirstName: "Ada",
		LastName:  "Quinn",
		Notes: []notes.Note{
			{
				PatientID: "p1", NoteID: "n1", Category: "Nursing",
				ChartTime: time.Date(2021, 6, 15, 14, 30, 0, 0, time.UTC), HasClock: true,
				Text: "first note body",
			},
			{
				PatientID: "p1", NoteID: "n2", Category: "Discharge summary",
				Text: "second note body",
			},
		},
	}
}

func TestNotePromptEmbedsContext(t *testing.T) {
	p := testPatient()
	norm := notes.NewNormalizer(2018)
	prompt := NotePrompt(p, norm, p.Notes[0])

	for _, want := range []string{
		"Ada Quinn",
		"type Nursing",
		"2018-06-15", // 2021 shifted by the year offset of 3
		"02:30 PM",
		`"Questions"`,
		"true/false",
		"multiple choice",
		"<note> first note body </note>",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestNotePromptUsesUnknownMarkers(t *testing.T) {
	p := testPatient()
	norm := notes.NewNormalizer(2018)
	prompt := NotePrompt(p, norm, p.Notes[1])
	if !strings.Contains(prompt, notes.UnknownDate) || !strings.Contains(prompt, notes.UnknownTime) {
		t.Fatalf("prompt missing unknown markers:\n%s", prompt)
	}
}

func TestChartPromptConcatenatesNotesInOrder(t *testing.T) {
	p := testPatient()
	norm := notes.NewNormalizer(2018)
	prompt := ChartPrompt(p, norm)

	first := strings.Index(prompt, "first note body")
	second := strings.Index(prompt, "second note body")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("notes missing or out of order (first=%d second=%d):\n%s", first, second, prompt)
	}
	// The preamble mentions <note> in prose; count opened note bodies.
	if strings.Count(prompt, "<note> This is a clinical note") != 2 {
		t.Fatalf("expected 2 delimited notes:\n%s", prompt)
	}
	if strings.Count(prompt, "</note>") != 2 {
		t.Fatalf("expected 2 closing delimiters:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Ada Quinn") {
		t.Fatal("chart prompt missing patient name")
	}
}
