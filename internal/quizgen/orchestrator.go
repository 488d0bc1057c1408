package quizgen

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osler/chartquiz/internal/notes"
)

// Config is the orchestrator's operational surface. Every knob is supplied
// externally; none is a hard-coded constant.
type Config struct {
	ReferenceYear int
	// MaxPatients stops the run after this many patients when > 0. Debug
	// knob, not a correctness concern.
	MaxPatients int
	// Workers bounds how many patients are processed concurrently. Notes
	// within one patient always stay sequential and chronological. 1
	// reproduces the reference single-threaded behavior.
	Workers int
}

// Orchestrator walks patients, drives the generator at note and chart
// level, validates each response, and hands accepted record batches to a
// single writer goroutine. Every failure is local to one request: logged,
// skipped, never retried, never fatal.
type Orchestrator struct {
	gen    Generator
	writer RecordWriter
	norm   *notes.Normalizer
	cfg    Config
	tracer trace.Tracer
}

func NewOrchestrator(gen Generator, writer RecordWriter, cfg Config) *Orchestrator {
	return &Orchestrator{
		gen:    gen,
		writer: writer,
		norm:   notes.NewNormalizer(cfg.ReferenceYear),
		cfg:    cfg,
		tracer: otel.Tracer("chartquiz/quizgen"),
	}
}

// Run processes every patient. On context cancellation, in-flight requests
// finish or abandon at the next transport boundary and the writer drains,
// leaving the output a valid truncation-free prefix.
func (o *Orchestrator) Run(ctx context.Context, patients []*notes.Patient) error {
	if o.cfg.MaxPatients > 0 && len(patients) > o.cfg.MaxPatients {
		log.Printf("question-writer patient_cutoff limit=%d total=%d", o.cfg.MaxPatients, len(patients))
		patients = patients[:o.cfg.MaxPatients]
	}
	workers := o.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *notes.Patient)
	batches := make(chan []QuestionRecord, workers)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for batch := range batches {
			if err := o.writer.Append(batch); err != nil {
				patientID, level := "", ""
				if len(batch) > 0 {
					patientID = batch[0].PatientID
					level = string(batch[0].Level)
				}
				log.Printf("question-writer write_failure patient=%s level=%s rows=%d err=%q",
					patientID, level, len(batch), err)
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				o.processPatient(ctx, p, batches)
			}
		}()
	}

feed:
	for _, p := range patients {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- p:
		}
	}
	close(jobs)
	wg.Wait()
	close(batches)
	<-writerDone

	return context.Cause(ctx)
}

// processPatient runs the per-patient state machine: every note in
// chronological order at note level, then the full chart once.
func (o *Orchestrator) processPatient(ctx context.Context, p *notes.Patient, batches chan<- []QuestionRecord) {
	for _, note := range p.Notes {
		if ctx.Err() != nil {
			return
		}
		prompt := NotePrompt(p, o.norm, note)
		questions, ok := o.generate(ctx, p.PatientID, note.NoteID, LevelNote, prompt)
		if !ok {
			continue
		}
		noteID := note.NoteID
		batches <- stamp(questions, p.PatientID, &noteID, LevelNote)
	}

	if ctx.Err() != nil {
		return
	}
	prompt := ChartPrompt(p, o.norm)
	questions, ok := o.generate(ctx, p.PatientID, "", LevelChart, prompt)
	if !ok {
		return
	}
	batches <- stamp(questions, p.PatientID, nil, LevelChart)
}

// generate runs one request through submit, strip, and both validation
// stages. ok is false on any failure path; the reason is logged with
// enough context to replay the request manually.
func (o *Orchestrator) generate(ctx context.Context, patientID, noteID string, level Level, prompt string) ([]GeneratedQuestion, bool) {
	ctx, span := o.tracer.Start(ctx, "chartquiz.generate", trace.WithAttributes(
		attribute.String("chartquiz.patient_id", patientID),
		attribute.String("chartquiz.note_id", noteID),
		attribute.String("chartquiz.level", string(level)),
	))
	defer span.End()

	raw, err := o.gen.Generate(ctx, prompt)
	if err != nil {
		span.SetStatus(codes.Error, "transport failure")
		span.RecordError(err)
		log.Printf("question-writer transport_failure patient=%s note=%s level=%s err=%q",
			patientID, noteID, level, err)
		return nil, false
	}

	outcome := Validate(StripFences(raw))
	switch outcome.Kind {
	case OutcomeSyntaxInvalid:
		span.SetStatus(codes.Error, "syntax invalid")
		log.Printf("question-writer invalid_json patient=%s note=%s level=%s err=%q payload=%q",
			patientID, noteID, level, outcome.Reason, truncate(raw, 120))
		return nil, false
	case OutcomeSchemaInvalid:
		span.SetStatus(codes.Error, "schema invalid")
		log.Printf("question-writer wrong_schema patient=%s note=%s level=%s reason=%q payload=%q",
			patientID, noteID, level, outcome.Reason, truncate(raw, 120))
		return nil, false
	}
	span.SetAttributes(attribute.Int("chartquiz.questions", len(outcome.Questions)))
	return outcome.Questions, true
}

// stamp attaches provenance to every accepted question. Note-level records
// carry the originating note id; chart-level records carry none.
func stamp(questions []GeneratedQuestion, patientID string, noteID *string, level Level) []QuestionRecord {
	records := make([]QuestionRecord, 0, len(questions))
	for _, q := range questions {
		records = append(records, QuestionRecord{
			PatientID:    patientID,
			SourceNoteID: noteID,
			Level:        level,
			Difficulty:   q.Difficulty,
			Question:     q.Question,
			Answer:       q.Answer,
			Options:      q.Options,
		})
	}
	return records
}
