package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	h1 := Hash("\\begin{frame}\nhello\n\\end{frame}\n")
	h2 := Hash("\\begin{frame}\nhello\n\\end{frame}\n")
	h3 := Hash("\\begin{frame}\nchanged\n\\end{frame}\n")

	assert.Len(t, h1, 64, "hex sha256 is 64 characters")
	assert.Equal(t, h1, h2, "identical text must hash identically")
	assert.NotEqual(t, h1, h3, "different text must hash differently")
}

func TestPlan(t *testing.T) {
	header := "\\documentclass{beamer}\n"
	footer := "\\end{document}\n"
	bodies := []string{"slide a\n", "slide b\n"}

	units := Plan(header, footer, bodies, false)

	assert.Len(t, units, 2)
	for i, u := range units {
		assert.Equal(t, i, u.Ordinal)
		assert.Equal(t, header+bodies[i]+footer, u.Assembled)
		assert.Equal(t, Hash(u.Assembled), u.Hash)
	}
}

func TestPlan_NumberFrames(t *testing.T) {
	units := Plan("h\n", "f\n", []string{"a\n", "b\n"}, true)

	assert.Equal(t, "h\n\\setcounter{framenumber}{0}\na\nf\n", units[0].Assembled)
	assert.Equal(t, "h\n\\setcounter{framenumber}{1}\nb\nf\n", units[1].Assembled)

	// The injected counter is part of the hashed bytes, so two slides
	// with identical bodies get distinct addresses.
	same := Plan("h\n", "f\n", []string{"a\n", "a\n"}, true)
	assert.NotEqual(t, same[0].Hash, same[1].Hash)
}

func TestPlan_SingleBodyChange(t *testing.T) {
	before := Plan("h\n", "f\n", []string{"a\n", "b\n", "c\n"}, false)
	after := Plan("h\n", "f\n", []string{"a\n", "B\n", "c\n"}, false)

	assert.Equal(t, before[0].Hash, after[0].Hash)
	assert.NotEqual(t, before[1].Hash, after[1].Hash)
	assert.Equal(t, before[2].Hash, after[2].Hash)
}
