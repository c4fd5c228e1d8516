package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type (
	// Runner specify all configuration for finding unused images in a documentation site.
	Runner struct {
		writer    io.Writer
		errWriter io.Writer

		root string

		// Config describes asset and reference roots. DefaultConfig is used when nil.
		Config *Config
		// Sinks receive the final report. When empty, sinks are derived from JSONFlag and CSVPath.
		Sinks []Sink
		// CSVPath is where unused images are persisted. Empty disables the CSV artifact.
		CSVPath string
		// Jobs is the number of images matched concurrently.
		Jobs int

		// DebugFlag turns on more verbose output.
		DebugFlag bool
		// JSONFlag turns on JSON output.
		JSONFlag bool
		// CacheFlag keeps reference file contents in memory between images.
		CacheFlag bool
		// ExplainFlag reports where and how every used image was matched.
		ExplainFlag bool
	}

	verdict struct {
		used  bool
		usage *Usage
	}
)

// New creates runner for analysis of the project located at root.
func New(writer, errWriter io.Writer, root string) *Runner {
	return &Runner{
		writer:    writer,
		errWriter: errWriter,
		root:      root,
		Jobs:      1,
	}
}

func (r *Runner) writeStderr(format string, args ...any) {
	fmt.Fprintf(r.errWriter, strings.TrimSuffix(format, "\n")+"\n", args...)
}

func (r *Runner) writeDebug(format string, args ...any) {
	if r.DebugFlag {
		r.writeStderr(format, args...)
	}
}

// Run finds images not referenced by any reference file and passes them to all sinks.
func (r *Runner) Run(ctx context.Context) error {
	if r.root == "" {
		return fmt.Errorf("no path provided")
	}
	root, err := filepath.Abs(r.root)
	if err != nil {
		return fmt.Errorf("failed to convert '%s' to absolute path: %w", r.root, err)
	}
	r.writeDebug("Start scanning project: %s", root)

	cfg := r.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	strategies, _ := cfg.strategies()
	r.writeDebug("Using strategies: %s", strings.Join(strategyNames(strategies), ", "))

	images, err := ListImages(root, cfg)
	if err != nil {
		r.writeStderr("Cannot list images: %s", err)
	}
	r.writeStderr("pattern = %s, files found = %d", filepath.ToSlash(filepath.Join(cfg.AssetDir, cfg.imagePattern())), len(images))
	r.writeStderr("Image files found: %d", len(images))

	corpus, err := ListReferences(root, cfg)
	if err != nil {
		return err
	}
	for _, pc := range corpus.Patterns {
		r.writeStderr("pattern = %s, files found = %d", pc.Pattern, pc.Files)
	}
	r.writeDebug("Detected %d distinct reference files", len(corpus.Files))

	matcher := NewMatcher(r.errWriter, strategies)
	if r.CacheFlag {
		matcher.EnableCache()
	}

	timeStart := time.Now()
	verdicts, err := r.classify(ctx, matcher, images, corpus.Files)
	if err != nil {
		return err
	}
	r.writeDebug("Matching %d images finished in %s", len(images), time.Since(timeStart))
	if n := matcher.Skipped(); n > 0 {
		r.writeStderr("Skipped %d unreadable reference files", n)
	}

	report := r.buildReport(root, images, len(corpus.Files), verdicts)
	return r.emit(ctx, report)
}

// classify matches images, possibly concurrently. Verdicts keep the order of images.
func (r *Runner) classify(
	ctx context.Context, matcher *Matcher, images []ImageAsset, files []string,
) ([]verdict, error) {
	verdicts := make([]verdict, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Jobs, 1))
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			if r.ExplainFlag {
				usage, err := matcher.Explain(gctx, img, files)
				if err != nil {
					return err
				}
				verdicts[i] = verdict{used: usage != nil, usage: usage}
				return nil
			}

			used, err := matcher.Used(gctx, img, files)
			if err != nil {
				return err
			}
			verdicts[i] = verdict{used: used}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to match images: %w", err)
	}
	return verdicts, nil
}

func (r *Runner) buildReport(root string, images []ImageAsset, references int, verdicts []verdict) *Report {
	report := &Report{
		Root:       root,
		Images:     len(images),
		References: references,
		Unused:     make([]string, 0),
	}
	for i, v := range verdicts {
		if !v.used {
			report.Unused = append(report.Unused, images[i].Path)
			continue
		}
		if v.usage == nil {
			continue
		}
		names := strategyNames(v.usage.Strategies)
		report.Usages = append(report.Usages, Image{
			Path:       images[i].Path,
			File:       v.usage.File,
			Strategies: names,
		})
		r.writeStderr("%s used in %s (%s)", images[i].RelPath(), v.usage.File, strings.Join(names, ", "))
	}
	return report
}

// emit passes report to every sink, even if some of them fail.
func (r *Runner) emit(ctx context.Context, report *Report) error {
	sinks := r.Sinks
	if len(sinks) == 0 {
		if r.JSONFlag {
			sinks = append(sinks, JSONSink{Writer: r.writer})
		} else {
			sinks = append(sinks, ConsoleSink{Writer: r.writer})
		}
		if r.CSVPath != "" {
			sinks = append(sinks, CSVSink{Path: r.CSVPath})
		}
	}

	var errs []error
	for _, sink := range sinks {
		if err := sink.Report(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 && r.CSVPath != "" && len(report.Unused) > 0 {
		r.writeDebug("Unused images written to %s", r.CSVPath)
	}
	return errors.Join(errs...)
}
