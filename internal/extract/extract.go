// Package extract pulls native text and embedded images out of source
// documents. One extractor per format, all sharing the domain.Extraction
// contract; per-item failures are recorded as skips instead of aborting
// the run.
package extract

import (
	"context"
	"fmt"

	"github.com/docsight/docsight/internal/domain"
)

// Extract runs the extractor for an already-resolved format.
func Extract(ctx context.Context, format domain.Format, path string) (domain.Extraction, error) {
	switch format {
	case domain.FormatPDF:
		return FromPDF(ctx, path)
	case domain.FormatDOCX:
		return FromDOCX(ctx, path)
	default:
		return domain.Extraction{}, fmt.Errorf("no extractor for format %q: %w", format, domain.ErrUnsupportedFormat)
	}
}
