package cache

import "time"

// Entry is the advisory metadata record kept per compiled slide. Staleness
// decisions never consult it; the side-car and artifact files are the truth.
// It exists for inspection (stats, last outcome per hash) and is garbage
// collected together with the files.
type Entry struct {
	// Hash is the content address of the slide's assembled text.
	Hash string `json:"hash"`

	// Ordinal is the slide's 0-based document position when last compiled.
	Ordinal int `json:"ordinal"`

	// Timestamp is when the compile finished.
	Timestamp time.Time `json:"timestamp"`

	// Success reports whether the external compiler produced the artifact.
	Success bool `json:"success"`

	// Placeholder reports whether the artifact is the built-in fallback page.
	Placeholder bool `json:"placeholder"`
}
