package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/osler/chartquiz/internal/quizstore"
	"github.com/osler/chartquiz/internal/report"
)

// render-quiz-report rebuilds a markdown quiz sheet from a generated
// output table and optionally prints it to PDF.
func main() {
	inputPath := flag.String("input", "", "Path to the output table CSV produced by question-writer")
	outputPath := flag.String("output", "", "Path to write markdown (defaults to stdout)")
	pdfPath := flag.String("pdf", "", "Optional path to write a PDF rendering")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	records, err := quizstore.LoadRecords(*inputPath)
	if err != nil {
		log.Fatalf("load records: %v", err)
	}
	markdown := report.BuildMarkdown(records)

	if err := writeMarkdown(*outputPath, markdown); err != nil {
		log.Fatalf("write markdown: %v", err)
	}
	if *pdfPath != "" {
		renderer := report.NewChromiumPDFRenderer()
		pdf, err := renderer.Render(context.Background(), markdown)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}
