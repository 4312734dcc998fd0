package cache

import "fmt"

// Unit is one slide prepared for compilation: its position in the document,
// the exact text that will be compiled and the content address derived from
// that text.
type Unit struct {
	// Ordinal is the slide's 0-based index within the document.
	Ordinal int

	// Body is the slide text produced by the splitter.
	Body string

	// Assembled is header + optional frame-number marker + body + footer,
	// the exact bytes that are hashed and handed to the compiler.
	Assembled string

	// Hash is the content address of Assembled.
	Hash string
}

// Plan assembles every slide body into a compilable unit, in document order.
// With numberFrames set, a frame-number counter reset is injected between
// header and body so each slide renders with its real position in the deck.
// The injected marker is part of the hashed bytes, so reordering slides
// invalidates their cache entries; only byte-identical assembled text is
// ever treated as unchanged.
func Plan(header, footer string, bodies []string, numberFrames bool) []Unit {
	units := make([]Unit, 0, len(bodies))

	for i, body := range bodies {
		assembled := header
		if numberFrames {
			assembled += fmt.Sprintf("\\setcounter{framenumber}{%d}\n", i)
		}
		assembled += body + footer

		units = append(units, Unit{
			Ordinal:   i,
			Body:      body,
			Assembled: assembled,
			Hash:      Hash(assembled),
		})
	}

	return units
}
