// Package splitter breaks a Beamer document into its shared header, shared
// footer and an ordered list of independently compilable slides.
//
// The scan is a small state machine over three states (header, slide,
// footer) driven by a closed set of line markers: the \begin{frame} /
// \end{frame} pair, and standalone markers that form a one-line slide of
// their own. Given identical input it always produces identical output;
// content addressing depends on that.
package splitter

import (
	"fmt"
	"regexp"
	"strings"
)

type state int

const (
	stateHeader state = iota
	stateSlide
	stateFooter
)

var (
	frameBegin = regexp.MustCompile(`^\s*\\begin\s*\{\s*frame\s*\}`)
	frameEnd   = regexp.MustCompile(`^\s*\\end\s*\{\s*frame\s*\}`)

	// Standalone markers each produce a complete one-line slide.
	standalone = []struct {
		name string
		re   *regexp.Regexp
	}{
		{"section", regexp.MustCompile(`^\s*\\section\s*\{\s*\w*`)},
		{"maketitle", regexp.MustCompile(`^\s*\\maketitle\b`)},
		{"titlepage", regexp.MustCompile(`^\s*\\titlepage\b`)},
		{"sectionpage", regexp.MustCompile(`^\s*\\sectionpage\b`)},
		{"fullframeimage", regexp.MustCompile(`^\s*\\fullframeimage\s*\{`)},
		{"fullframemovie", regexp.MustCompile(`^\s*\\fullframemovie\s*\{`)},
	}
)

// Result is the outcome of splitting one document.
type Result struct {
	// Header is everything before the first marker, shared by all slides.
	Header string

	// Footer is everything after the last slide, shared by all slides.
	Footer string

	// Slides are the slide texts in document order, markers included.
	Slides []string
}

// Error is a structural violation at a specific 1-based source line.
type Error struct {
	Line    int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Split scans the document lines and returns the header, footer and slides,
// together with any structural errors encountered. The scan continues past
// errors so that all violations are reported in one pass; callers decide
// whether a non-empty error list aborts the build.
func Split(lines []string) (*Result, []Error) {
	var (
		header strings.Builder
		footer strings.Builder
		body   strings.Builder
		slides []string
		errs   []Error
		st     = stateHeader
	)

	for i, line := range lines {
		n := i + 1

		switch {
		case frameBegin.MatchString(line):
			if st == stateSlide {
				errs = append(errs, Error{n, "frame inside frame"})
				continue
			}

			// A new slide opens: only text trailing the last slide
			// may survive as footer.
			footer.Reset()
			body.Reset()
			body.WriteString(line + "\n")
			st = stateSlide

		case frameEnd.MatchString(line):
			if st != stateSlide {
				errs = append(errs, Error{n, "frame end without frame begin"})
				continue
			}

			// Content is everything after the begin line, plus any
			// title or option text trailing the begin marker itself.
			begin := firstLine(body.String())
			interior := strings.TrimPrefix(body.String(), begin)
			rest := ""
			if loc := frameBegin.FindStringIndex(begin); loc != nil {
				rest = begin[loc[1]:]
			}
			if strings.TrimSpace(interior) == "" && strings.TrimSpace(rest) == "" {
				errs = append(errs, Error{n, "frame without content"})
			}

			body.WriteString(line + "\n")
			slides = append(slides, body.String())
			body.Reset()
			st = stateFooter

		case standaloneName(line) != "":
			if st == stateSlide {
				errs = append(errs, Error{n, standaloneName(line) + " inside frame"})
				continue
			}

			footer.Reset()
			slides = append(slides, line+"\n")
			st = stateFooter

		default:
			switch st {
			case stateSlide:
				body.WriteString(line + "\n")
			case stateHeader:
				header.WriteString(line + "\n")
			case stateFooter:
				footer.WriteString(line + "\n")
			}
		}
	}

	if st == stateSlide {
		errs = append(errs, Error{len(lines), "missing frame end"})
	}

	return &Result{
		Header: header.String(),
		Footer: footer.String(),
		Slides: slides,
	}, errs
}

// standaloneName returns the marker name if the line is a standalone
// one-line slide marker, or "".
func standaloneName(line string) string {
	for _, m := range standalone {
		if m.re.MatchString(line) {
			return m.name
		}
	}

	return ""
}

// firstLine returns s up to and including its first newline.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i+1]
	}

	return s
}
