// Package compiler turns one assembled slide into a PDF by invoking the
// external TeX compiler as a subprocess. A slide whose compile fails is
// replaced by the built-in placeholder page so downstream merging always has
// an artifact for every slide.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/slidekit/spv/internal/cache"
	"github.com/slidekit/spv/internal/logger"
)

// Commander interface for testing
type Commander interface {
	CombinedOutput() ([]byte, error)
}

// Job is one slide's compile work: the unit plus its side-car and artifact
// destinations. Jobs share no mutable state, so any number of them may run
// concurrently.
type Job struct {
	Unit     cache.Unit
	Sidecar  string
	Artifact string
}

// Result is the outcome of one compile job. Err is set only for side-car or
// artifact write failures; an external compile failure is reported through
// Placeholder instead, with a valid stand-in artifact on disk.
type Result struct {
	Job         Job
	Placeholder bool
	Err         error
}

// Compiler invokes the external TeX compiler for single slides.
type Compiler struct {
	// Path is the compiler executable.
	Path string

	// Args are passthrough flags placed before the source file.
	Args []string

	// Passes is how many times the compiler runs per slide; some compilers
	// need repeated passes to resolve cross-references.
	Passes int

	// Prefix is the output directory handed to the compiler.
	Prefix string

	log         *logger.Logger
	execCommand func(ctx context.Context, name string, args ...string) Commander
}

// New creates a Compiler. A passes value below 1 is treated as 1.
func New(path string, args []string, passes int, prefix string, log *logger.Logger) *Compiler {
	if passes < 1 {
		passes = 1
	}

	return &Compiler{
		Path:   path,
		Args:   args,
		Passes: passes,
		Prefix: prefix,
		log:    log,
		execCommand: func(ctx context.Context, name string, args ...string) Commander {
			return exec.CommandContext(ctx, name, args...)
		},
	}
}

// Compile writes the slide's side-car source, runs the external compiler the
// configured number of passes and checks that the artifact exists. On
// failure the side-car is blanked, so a later cache check cannot mistake the
// attempt for a success, and the placeholder page is written to the artifact
// path.
func (c *Compiler) Compile(ctx context.Context, job Job) Result {
	c.log.Infof("Compiling slide %d (%.12s)", job.Unit.Ordinal+1, job.Unit.Hash)

	if err := os.WriteFile(job.Sidecar, []byte(job.Unit.Assembled), 0o644); err != nil {
		return Result{Job: job, Err: fmt.Errorf("could not write %s: %w", job.Sidecar, err)}
	}

	// A leftover artifact from an earlier attempt must not pass for a
	// fresh compile.
	if _, err := os.Stat(job.Artifact); err == nil {
		if err := os.Remove(job.Artifact); err != nil {
			return Result{Job: job, Err: fmt.Errorf("could not remove %s: %w", job.Artifact, err)}
		}
	}

	args := append([]string{}, c.Args...)
	args = append(args, "-output-directory="+c.Prefix, job.Sidecar)

	var output []byte
	exitCode := 0

	for pass := 0; pass < c.Passes; pass++ {
		out, err := c.execCommand(ctx, c.Path, args...).CombinedOutput()
		output = append(output, out...)

		exitCode = 0
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else {
				output = append(output, []byte(err.Error()+"\n")...)
				exitCode = -1
			}
		}

		if ctx.Err() != nil {
			break
		}
	}

	if _, err := os.Stat(job.Artifact); err == nil {
		return Result{Job: job}
	}

	if !IsSuccess(exitCode) {
		c.log.Warnf("Could not compile slide %d (exit code %d: %s)", job.Unit.Ordinal+1, exitCode, ErrorMessage(exitCode))
	} else {
		c.log.Warnf("Could not compile slide %d: compiler produced no output", job.Unit.Ordinal+1)
	}

	if len(output) > 0 {
		c.log.Warnf("Compiler output for slide %d:\n%s", job.Unit.Ordinal+1, output)
	}
	c.log.Debugf("Attempted content for slide %d:\n%s", job.Unit.Ordinal+1, job.Unit.Assembled)

	if err := os.WriteFile(job.Sidecar, nil, 0o644); err != nil {
		return Result{Job: job, Err: fmt.Errorf("could not write %s: %w", job.Sidecar, err)}
	}

	if err := os.WriteFile(job.Artifact, Placeholder(), 0o644); err != nil {
		return Result{Job: job, Err: fmt.Errorf("could not write %s: %w", job.Artifact, err)}
	}

	return Result{Job: job, Placeholder: true}
}
