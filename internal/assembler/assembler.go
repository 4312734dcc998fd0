// Package assembler merges the per-slide PDFs into the final combined
// document. The merge is best effort over the inputs: a missing slide
// artifact is warned about and skipped, never fatal. Writing the combined
// output itself is all or nothing.
package assembler

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/slidekit/spv/internal/cache"
	"github.com/slidekit/spv/internal/logger"
)

// Merge concatenates every unit's artifact, in document order, into out.
// Units whose artifact has vanished since the cache check are skipped with
// a warning.
func Merge(units []cache.Unit, c *cache.Cache, out string, log *logger.Logger) error {
	inputs := collect(units, c, log)
	if len(inputs) == 0 {
		return fmt.Errorf("no slide artifacts to merge into %s", out)
	}

	if err := api.MergeCreateFile(inputs, out, false, nil); err != nil {
		return fmt.Errorf("could not write %s: %w", out, err)
	}

	return nil
}

// collect returns the artifact paths that exist on disk, in document order.
func collect(units []cache.Unit, c *cache.Cache, log *logger.Logger) []string {
	inputs := make([]string, 0, len(units))

	for _, u := range units {
		path := c.ArtifactPath(u.Hash)
		if _, err := os.Stat(path); err != nil {
			log.Warnf("Could not add slide %d to the final output: %v", u.Ordinal+1, err)
			continue
		}

		inputs = append(inputs, path)
	}

	return inputs
}
