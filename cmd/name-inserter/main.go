package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/osler/chartquiz/internal/deident"
)

// name-inserter merges a notes table (patient_id,text) with a names table
// (patient_id,first_name,last_name) and writes the notes back with the
// assigned names inserted.
func main() {
	notesPath := flag.String("notes", "", "Path to the notes CSV (patient_id,text)")
	namesPath := flag.String("names", "", "Path to the names CSV (patient_id,first_name,last_name)")
	outputPath := flag.String("output", "", "Path to write the modified notes CSV")
	replacePattern := flag.Bool("replace-pattern", true, "Replace [**Known firstname/lastname**] placeholders")
	insertAtBOS := flag.Bool("insert-at-bos", false, "Prepend the name to every line of each note")
	flag.Parse()

	if *notesPath == "" || *namesPath == "" || *outputPath == "" {
		log.Fatal("missing required -notes, -names, or -output")
	}

	names, err := loadNames(*namesPath)
	if err != nil {
		log.Fatalf("load names: %v", err)
	}

	in, err := os.Open(*notesPath)
	if err != nil {
		log.Fatalf("open notes: %v", err)
	}
	defer in.Close()
	out, err := os.Create(*outputPath)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	defer out.Close()

	opts := deident.Options{ReplacePlaceholders: *replacePattern, PrependToLines: *insertAtBOS}
	modified, total, err := process(in, out, names, opts)
	if err != nil {
		log.Fatalf("process notes: %v", err)
	}
	log.Printf("name-inserter done notes=%d modified=%d", total, modified)
}

type fullName struct {
	first string
	last  string
}

func loadNames(path string) (map[string]fullName, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	if _, err := cr.Read(); err != nil {
		return nil, err
	}
	names := map[string]fullName{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 3 {
			continue
		}
		names[strings.TrimSpace(row[0])] = fullName{first: strings.TrimSpace(row[1]), last: strings.TrimSpace(row[2])}
	}
	return names, nil
}

func process(in io.Reader, out io.Writer, names map[string]fullName, opts deident.Options) (modified, total int, err error) {
	cr := csv.NewReader(in)
	if _, err := cr.Read(); err != nil {
		return 0, 0, err
	}
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"patient_id", "text"}); err != nil {
		return 0, 0, err
	}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return modified, total, err
		}
		if len(row) < 2 {
			continue
		}
		total++
		pid := strings.TrimSpace(row[0])
		text := row[1]
		name, ok := names[pid]
		if ok {
			inserted := deident.Apply(text, name.first, name.last, opts)
			if inserted != text {
				modified++
			}
			text = inserted
		}
		if err := cw.Write([]string{pid, text}); err != nil {
			return modified, total, err
		}
	}
	cw.Flush()
	return modified, total, cw.Error()
}
