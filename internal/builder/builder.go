// Package builder drives one build pass: read the document, split it into
// slides, decide what is stale, recompile the stale slides in parallel and
// merge every current slide into the combined output.
package builder

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/slidekit/spv/internal/assembler"
	"github.com/slidekit/spv/internal/cache"
	"github.com/slidekit/spv/internal/compiler"
	"github.com/slidekit/spv/internal/config"
	"github.com/slidekit/spv/internal/logger"
	"github.com/slidekit/spv/internal/scheduler"
	"github.com/slidekit/spv/internal/splitter"
)

// sourceReadAttempts covers the window where an editor has replaced the
// file but not finished writing it yet.
const sourceReadAttempts = 3

// Builder runs build passes for one configuration.
type Builder struct {
	cfg *config.Config
	log *logger.Logger

	// compile is swapped for a stand-in under test.
	compile scheduler.CompileFunc
}

// New creates a Builder using the external compiler from cfg.
func New(cfg *config.Config, log *logger.Logger) *Builder {
	comp := compiler.New(cfg.Compiler, cfg.CompilerArgs, cfg.Passes, cfg.Prefix, log)

	return &Builder{cfg: cfg, log: log, compile: comp.Compile}
}

// Run executes one full build pass. The returned error is nil for a clean
// pass, including passes where individual slides fell back to the
// placeholder page; it is non-nil for a fatal source read failure or, unless
// ignore-errors is configured, for reported errors (structural violations,
// side-car write failures, a failed final merge).
func (b *Builder) Run(ctx context.Context) error {
	lines, err := b.readSource()
	if err != nil {
		b.log.Criticalf("%v", err)
		return err
	}

	doc, parseErrs := splitter.Split(lines)
	for _, e := range parseErrs {
		b.log.Errorf("%v", e)
	}
	if len(parseErrs) > 0 && !b.cfg.IgnoreErrors {
		return fmt.Errorf("%d structural errors in %s", len(parseErrs), b.cfg.Source)
	}

	units := cache.Plan(doc.Header, doc.Footer, doc.Slides, b.cfg.NumberFrames)

	c, err := cache.New(b.cfg.Prefix)
	if err != nil {
		return err
	}
	defer c.Close()

	required := make(map[string]struct{}, len(units))
	for _, u := range units {
		required[u.Hash] = struct{}{}
	}

	if removed := c.GarbageCollect(required, b.log.Warnf); removed > 0 {
		b.log.Debugf("Garbage collected %d stale cache files", removed)
	}

	if len(units) == 0 {
		b.log.Warnf("No slides found in %s", b.cfg.Source)
		return nil
	}

	var jobs []compiler.Job
	scheduled := make(map[string]struct{})
	stale := 0
	for _, u := range units {
		if !c.IsStale(u, b.cfg.Force) {
			continue
		}
		stale++

		// Hash-equal slides are cache-equivalent: one compile serves
		// them all, and scheduling each copy would hand concurrent
		// workers the same side-car and artifact paths.
		if _, ok := scheduled[u.Hash]; ok {
			continue
		}
		scheduled[u.Hash] = struct{}{}

		jobs = append(jobs, compiler.Job{
			Unit:     u,
			Sidecar:  c.SidecarPath(u.Hash),
			Artifact: c.ArtifactPath(u.Hash),
		})
	}

	if len(jobs) == 0 {
		b.log.Infof("Everything is up to date, no recompilation required")

		// The combined output of the previous identical pass is still
		// correct on disk; merge again only if it is gone.
		if _, err := os.Stat(b.cfg.Out); err == nil {
			return nil
		}
	} else {
		b.log.Infof("Compiling %d of %d slides on %d workers", len(jobs), len(units), b.cfg.Jobs)

		results := scheduler.Run(ctx, jobs, b.cfg.Jobs, b.compile)

		placeholders := 0
		var reported error
		for _, r := range results {
			if r.Err != nil {
				b.log.Errorf("%v", r.Err)
				reported = r.Err
				continue
			}

			if r.Placeholder {
				placeholders++
			}

			entry := cache.Entry{
				Hash:        r.Job.Unit.Hash,
				Ordinal:     r.Job.Unit.Ordinal,
				Timestamp:   time.Now(),
				Success:     !r.Placeholder,
				Placeholder: r.Placeholder,
			}
			if err := c.Record(entry); err != nil {
				b.log.Warnf("Could not record cache entry for slide %d: %v", r.Job.Unit.Ordinal+1, err)
			}
		}

		if reported != nil && !b.cfg.IgnoreErrors {
			return reported
		}

		// A superseded watch pass may drain with fewer results than
		// jobs; report what actually ran.
		b.log.Infof("%d slides recompiled, %d already current", len(results), len(units)-stale)
		if placeholders > 0 {
			b.log.Warnf("%d slides fell back to the placeholder page", placeholders)
		}
	}

	if err := assembler.Merge(units, c, b.cfg.Out, b.log); err != nil {
		b.log.Errorf("%v", err)
		if !b.cfg.IgnoreErrors {
			return err
		}

		return nil
	}

	b.log.Infof("Wrote %s", b.cfg.Out)

	if b.cfg.Verbose {
		if count, size, err := c.Stats(); err == nil {
			b.log.Debugf("Cache: %d entries, %.1f KiB on disk", count, float64(size)/1024)
		}
	}

	return nil
}

// readSource reads the document and splits it into lines, retrying briefly
// before giving up.
func (b *Builder) readSource() ([]string, error) {
	var data []byte
	var err error

	for attempt := 0; attempt < sourceReadAttempts; attempt++ {
		data, err = os.ReadFile(b.cfg.Source)
		if err == nil {
			return strings.Split(string(data), "\n"), nil
		}

		time.Sleep(50 * time.Millisecond)
	}

	return nil, fmt.Errorf("could not open %s: %w", b.cfg.Source, err)
}
