package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/osler/chartquiz/internal/quizgen"
)

// BuildMarkdown renders a quiz sheet from an output table: one section per
// patient with the questions in written order, and an answer key at the
// end so the sheet can be handed out directly.
func BuildMarkdown(records []quizgen.QuestionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Patient Chart Quiz\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Questions: %d\n\n", len(records))

	grouped, order := groupByPatient(records)
	number := 0
	answers := make([]string, 0, len(records))
	for _, pid := range order {
		fmt.Fprintf(&b, "## Patient %s\n\n", pid)
		for _, r := range grouped[pid] {
			number++
			source := "chart"
			if r.SourceNoteID != nil {
				source = "note " + *r.SourceNoteID
			}
			fmt.Fprintf(&b, "**Q%d.** (%s, from %s) %s\n\n", number, displayDifficulty(r.Difficulty), source, r.Question)
			for i, opt := range r.Options {
				fmt.Fprintf(&b, "   %c. %s\n", 'a'+rune(i), opt)
			}
			if len(r.Options) > 0 {
				fmt.Fprintf(&b, "\n")
			}
			answers = append(answers, fmt.Sprintf("**Q%d.** %s", number, r.Answer))
		}
	}

	fmt.Fprintf(&b, "## Answer Key\n\n")
	for _, a := range answers {
		fmt.Fprintf(&b, "%s\n\n", a)
	}
	return b.String()
}

func displayDifficulty(d string) string {
	if strings.TrimSpace(d) == "" {
		return "unrated"
	}
	return d
}

func groupByPatient(records []quizgen.QuestionRecord) (map[string][]quizgen.QuestionRecord, []string) {
	grouped := map[string][]quizgen.QuestionRecord{}
	var order []string
	for _, r := range records {
		if _, ok := grouped[r.PatientID]; !ok {
			order = append(order, r.PatientID)
		}
		grouped[r.PatientID] = append(grouped[r.PatientID], r)
	}
	return grouped, order
}
