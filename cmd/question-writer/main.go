package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/osler/chartquiz/internal/notes"
	"github.com/osler/chartquiz/internal/quizgen"
	"github.com/osler/chartquiz/internal/quizstore"
	"github.com/osler/chartquiz/internal/telemetry"
)

func main() {
	inputPath := flag.String("input", "", "Path to the notes table CSV")
	outputPath := flag.String("output", "", "Path to the output table (.csv, or .db/.sqlite for the sqlite store)")
	endpoint := flag.String("endpoint", envStr("CHARTQUIZ_ENDPOINT", "http://localhost:11434/api/generate"), "Generation service endpoint")
	model := flag.String("model", envStr("CHARTQUIZ_MODEL", quizgen.DefaultModel), "Model identifier")
	backend := flag.String("backend", "ollama", "Generation backend: ollama or anthropic")
	referenceYear := flag.Int("reference-year", notes.DefaultReferenceYear, "Year the synthetic timeline is anchored to")
	maxPatients := flag.Int("max-patients", 0, "Stop after this many patients (0 = all); debugging knob")
	workers := flag.Int("workers", envInt("CHARTQUIZ_WORKERS", 1), "Patients processed concurrently")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}
	if *outputPath == "" {
		log.Fatal("missing required -output")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Init(ctx, "question-writer")
	if err != nil {
		log.Fatalf("init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("question-writer tracing_shutdown err=%q", err)
		}
	}()

	gen, err := newGenerator(*backend, *endpoint, *model)
	if err != nil {
		log.Fatal(err)
	}

	patients, err := notes.Load(*inputPath)
	if err != nil {
		log.Fatalf("load notes: %v", err)
	}
	log.Printf("question-writer loaded patients=%d model=%s backend=%s", len(patients), gen.ModelName(), *backend)

	writer, err := quizstore.NewWriter(*outputPath)
	if err != nil {
		log.Fatalf("open output: %v", err)
	}

	orch := quizgen.NewOrchestrator(gen, writer, quizgen.Config{
		ReferenceYear: *referenceYear,
		MaxPatients:   *maxPatients,
		Workers:       *workers,
	})
	runErr := orch.Run(ctx, patients)
	if err := writer.Close(); err != nil {
		log.Printf("question-writer close_output err=%q", err)
	}
	if runErr != nil && runErr != context.Canceled {
		log.Fatal(runErr)
	}
}

func newGenerator(backend, endpoint, model string) (quizgen.Generator, error) {
	switch backend {
	case "anthropic":
		return quizgen.NewAnthropicGeneratorFromEnv(model)
	default:
		return quizgen.NewOllamaGenerator(endpoint, model), nil
	}
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
