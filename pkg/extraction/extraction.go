package extraction

import (
	"context"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/cache"
)

// PageImage is one rasterized input unit handed to the oracle.
type PageImage struct {
	// Page is the 1-based page number within the source document. Standalone
	// image inputs count as page 1.
	Page int

	// PNG holds the encoded image bytes.
	PNG []byte
}

// Hash returns a content hash of the image, used as the cache partition key
// for extraction results.
func (p PageImage) Hash() string {
	return cache.Hash(p.PNG)
}

// Extractor produces raw fragments from a single page image.
//
// A page may legitimately yield zero fragments (a cover sheet, a site map).
// That is not an error; errors are reserved for oracle failures and payloads
// that do not validate.
type Extractor interface {
	// ExtractPage extracts all borehole log fragments visible on the page.
	ExtractPage(ctx context.Context, img PageImage) ([]borehole.Fragment, error)

	// Provider returns the oracle identifier, e.g. "openai".
	Provider() string

	// Model returns the model identifier used for calls.
	Model() string
}
