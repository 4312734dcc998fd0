package compiler

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidekit/spv/internal/cache"
	"github.com/slidekit/spv/internal/logger"
)

type fakeCommand struct {
	run func() ([]byte, error)
}

func (f *fakeCommand) CombinedOutput() ([]byte, error) {
	return f.run()
}

func newTestCompiler(t *testing.T, passes int) (*Compiler, Job) {
	t.Helper()

	prefix := t.TempDir()
	comp := New("latexmk", []string{"-pdf"}, passes, prefix, logger.New(io.Discard, false))

	unit := cache.Plan("h\n", "f\n", []string{"slide\n"}, false)[0]
	job := Job{
		Unit:     unit,
		Sidecar:  filepath.Join(prefix, unit.Hash+".tex"),
		Artifact: filepath.Join(prefix, unit.Hash+".pdf"),
	}

	return comp, job
}

func TestCompile_Success(t *testing.T) {
	comp, job := newTestCompiler(t, 1)

	calls := 0
	comp.execCommand = func(ctx context.Context, name string, args ...string) Commander {
		return &fakeCommand{run: func() ([]byte, error) {
			calls++

			assert.Equal(t, "latexmk", name)
			assert.Equal(t, "-pdf", args[0])
			assert.Equal(t, "-output-directory="+comp.Prefix, args[1])
			assert.Equal(t, job.Sidecar, args[2])

			return nil, os.WriteFile(job.Artifact, []byte("pdf"), 0o644)
		}}
	}

	res := comp.Compile(context.Background(), job)

	require.NoError(t, res.Err)
	assert.False(t, res.Placeholder)
	assert.Equal(t, 1, calls)

	sidecar, err := os.ReadFile(job.Sidecar)
	require.NoError(t, err)
	assert.Equal(t, job.Unit.Assembled, string(sidecar))
}

func TestCompile_FailureWritesPlaceholder(t *testing.T) {
	comp, job := newTestCompiler(t, 1)
	comp.execCommand = func(ctx context.Context, name string, args ...string) Commander {
		return &fakeCommand{run: func() ([]byte, error) {
			return []byte("! Undefined control sequence.\n"), nil
		}}
	}

	res := comp.Compile(context.Background(), job)

	require.NoError(t, res.Err)
	assert.True(t, res.Placeholder)

	// The side-car is blanked so the next pass cannot mistake the failed
	// attempt for a cached success.
	sidecar, err := os.ReadFile(job.Sidecar)
	require.NoError(t, err)
	assert.Empty(t, sidecar)

	artifact, err := os.ReadFile(job.Artifact)
	require.NoError(t, err)
	assert.Equal(t, Placeholder(), artifact)
}

func TestCompile_RunsConfiguredPasses(t *testing.T) {
	comp, job := newTestCompiler(t, 3)

	calls := 0
	comp.execCommand = func(ctx context.Context, name string, args ...string) Commander {
		return &fakeCommand{run: func() ([]byte, error) {
			calls++
			if calls == 3 {
				return nil, os.WriteFile(job.Artifact, []byte("pdf"), 0o644)
			}

			return nil, nil
		}}
	}

	res := comp.Compile(context.Background(), job)

	require.NoError(t, res.Err)
	assert.False(t, res.Placeholder)
	assert.Equal(t, 3, calls)
}

func TestCompile_RemovesStaleArtifact(t *testing.T) {
	comp, job := newTestCompiler(t, 1)

	// A leftover artifact from a previous attempt must not survive a
	// failed compile as a false success.
	require.NoError(t, os.WriteFile(job.Artifact, []byte("stale"), 0o644))

	comp.execCommand = func(ctx context.Context, name string, args ...string) Commander {
		return &fakeCommand{run: func() ([]byte, error) {
			return nil, nil
		}}
	}

	res := comp.Compile(context.Background(), job)

	assert.True(t, res.Placeholder)

	artifact, err := os.ReadFile(job.Artifact)
	require.NoError(t, err)
	assert.Equal(t, Placeholder(), artifact)
}

func TestNew_ClampsPasses(t *testing.T) {
	comp := New("latexmk", nil, 0, t.TempDir(), logger.New(io.Discard, false))
	assert.Equal(t, 1, comp.Passes)
}
