package quizgen

import (
	"encoding/json"
	"fmt"
)

// OutcomeKind distinguishes the three results of validating generator
// output. Validation never panics or aborts the batch; callers switch on
// the kind and skip the request on either failure.
type OutcomeKind int

const (
	OutcomeValid OutcomeKind = iota
	OutcomeSyntaxInvalid
	OutcomeSchemaInvalid
)

// Outcome is the tagged result of the two-stage validator. Questions is
// populated only when Kind is OutcomeValid; Reason is populated only on
// the two failure kinds.
type Outcome struct {
	Kind      OutcomeKind
	Questions []GeneratedQuestion
	Reason    string
}

func syntaxInvalid(err error) Outcome {
	return Outcome{Kind: OutcomeSyntaxInvalid, Reason: err.Error()}
}

func schemaInvalid(format string, args ...any) Outcome {
	return Outcome{Kind: OutcomeSchemaInvalid, Reason: fmt.Sprintf(format, args...)}
}

var allowedQuestionKeys = map[string]bool{
	"Question":   true,
	"Answer":     true,
	"Difficulty": true,
	"Options":    true,
}

// Validate applies the syntactic stage (JSON parse) and then the semantic
// stage (exactly one top-level "Questions" key holding a list of question
// objects) to stripped generator output. Every element of the list is
// checked; a single malformed element rejects the whole response.
func Validate(raw string) Outcome {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return syntaxInvalid(err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return schemaInvalid("not a JSON object")
	}
	rawQuestions, ok := obj["Questions"]
	if !ok {
		return schemaInvalid(`no "Questions" top-level key`)
	}
	if len(obj) > 1 {
		return schemaInvalid("unexpected top-level key")
	}
	list, ok := rawQuestions.([]any)
	if !ok {
		return schemaInvalid(`"Questions" is not a list`)
	}

	questions := make([]GeneratedQuestion, 0, len(list))
	for i, el := range list {
		q, err := validateQuestion(i, el)
		if err != nil {
			return schemaInvalid("%s", err)
		}
		questions = append(questions, q)
	}
	return Outcome{Kind: OutcomeValid, Questions: questions}
}

func validateQuestion(i int, el any) (GeneratedQuestion, error) {
	fields, ok := el.(map[string]any)
	if !ok {
		return GeneratedQuestion{}, fmt.Errorf("question %d is not an object", i)
	}
	for _, required := range []string{"Question", "Answer", "Difficulty"} {
		if _, ok := fields[required]; !ok {
			return GeneratedQuestion{}, fmt.Errorf("question %d missing %q", i, required)
		}
	}
	for key := range fields {
		if !allowedQuestionKeys[key] {
			return GeneratedQuestion{}, fmt.Errorf("question %d has unexpected field %q", i, key)
		}
	}

	q := GeneratedQuestion{
		Question:   asText(fields["Question"]),
		Answer:     asText(fields["Answer"]),
		Difficulty: asText(fields["Difficulty"]),
	}
	if rawOpts, ok := fields["Options"]; ok && rawOpts != nil {
		opts, ok := rawOpts.([]any)
		if !ok {
			return GeneratedQuestion{}, fmt.Errorf(`question %d "Options" is not a list`, i)
		}
		for _, o := range opts {
			s, ok := o.(string)
			if !ok {
				return GeneratedQuestion{}, fmt.Errorf(`question %d "Options" element is not a string`, i)
			}
			q.Options = append(q.Options, s)
		}
	}
	return q, nil
}

// asText renders a scalar field value for output. Generators occasionally
// emit booleans or numbers for true/false answers; those are kept as their
// JSON text rather than rejected.
func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
