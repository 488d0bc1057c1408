package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/osler/chartquiz/internal/notes"
)

// patient-splitter writes one CSV per patient containing that patient's
// note texts, each prefixed with its note type and the assigned name, for
// workflows that consume charts file-by-file.
func main() {
	inputPath := flag.String("input", "", "Path to the notes table CSV")
	outputDir := flag.String("output-dir", "", "Directory to write per-patient CSV files into")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}
	if *outputDir == "" {
		log.Fatal("missing required -output-dir")
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	patients, err := notes.Load(*inputPath)
	if err != nil {
		log.Fatalf("load notes: %v", err)
	}

	for _, p := range patients {
		if err := writePatientFile(*outputDir, p); err != nil {
			log.Printf("patient-splitter write_failure patient=%s err=%q", p.PatientID, err)
		}
	}
	log.Printf("patient-splitter done patients=%d dir=%s", len(patients), *outputDir)
}

func writePatientFile(dir string, p *notes.Patient) error {
	f, err := os.Create(filepath.Join(dir, p.PatientID+".csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"text"}); err != nil {
		return err
	}
	for _, note := range p.Notes {
		line := fmt.Sprintf("This is a clinical note of type %s for the ICU patient named %s: %s",
			note.Category, p.DisplayName(), note.Text)
		if err := w.Write([]string{line}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
