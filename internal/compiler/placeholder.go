package compiler

import (
	"bytes"
	"fmt"
	"sync"
)

// The placeholder is a minimal single-page PDF substituted for a slide whose
// external compile failed. It keeps the merged deck's page count aligned
// with the slide count, so a broken slide shows up as a blank page instead
// of silently shifting every later slide. The page box is the Beamer
// default paper size, 128mm x 96mm.

var placeholderOnce = sync.OnceValue(buildPlaceholder)

// Placeholder returns the placeholder PDF bytes.
func Placeholder() []byte {
	return placeholderOnce()
}

func buildPlaceholder() []byte {
	var buf bytes.Buffer

	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 362.835 272.126] /Resources << >> >>\nendobj\n",
	}

	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		buf.WriteString(obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}
