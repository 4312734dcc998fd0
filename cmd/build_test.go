package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBuild_ArgValidation(t *testing.T) {
	err := runBuild(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one file")

	err = runBuild(rootCmd, []string{"a.tex", "b.tex"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one file")

	err = runBuild(rootCmd, []string{"slides.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".tex extension")
}
