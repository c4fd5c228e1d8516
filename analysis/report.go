package analysis

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink renders a finished report. Sinks never change verdicts.
type Sink interface {
	Report(ctx context.Context, report *Report) error
}

type (
	// ConsoleSink prints unused images line by line.
	ConsoleSink struct {
		Writer io.Writer
	}

	// CSVSink persists unused images into a single column CSV file.
	// Nothing is written when there is no unused image.
	CSVSink struct {
		Path string
	}

	// JSONSink prints the whole report as indented JSON.
	JSONSink struct {
		Writer io.Writer
	}
)

// Report implements Sink.
func (s ConsoleSink) Report(_ context.Context, report *Report) error {
	if len(report.Unused) == 0 {
		_, err := fmt.Fprintln(s.Writer, "No unused images found.")
		return err
	}
	if _, err := fmt.Fprintln(s.Writer, "Unused Images:"); err != nil {
		return err
	}
	for _, img := range report.Unused {
		if _, err := fmt.Fprintln(s.Writer, img); err != nil {
			return err
		}
	}
	return nil
}

// Report implements Sink.
func (s CSVSink) Report(_ context.Context, report *Report) error {
	if len(report.Unused) == 0 {
		return nil
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to write %s: %w", s.Path, err)
		}
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}

	w := csv.NewWriter(f)
	records := make([][]string, 0, len(report.Unused)+1)
	records = append(records, []string{"Image Path"})
	for _, img := range report.Unused {
		records = append(records, []string{img})
	}
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return nil
}

// Report implements Sink.
func (s JSONSink) Report(_ context.Context, report *Report) error {
	enc := json.NewEncoder(s.Writer)
	enc.SetIndent("", "\t")
	return enc.Encode(report)
}
