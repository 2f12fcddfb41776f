package extraction

import (
	"context"

	"github.com/geosect/geosect/pkg/borehole"
)

// MockExtractor returns canned fragments keyed by page number. It exists for
// tests and for the pipeline's offline mode.
type MockExtractor struct {
	// Pages maps a page number to the fragments that page yields. Pages
	// without an entry yield nothing.
	Pages map[int][]borehole.Fragment

	// Err, when set, is returned by every call.
	Err error

	// Calls records the pages extracted, in order.
	Calls []int
}

// ExtractPage returns the canned fragments for the page.
func (m *MockExtractor) ExtractPage(_ context.Context, img PageImage) ([]borehole.Fragment, error) {
	m.Calls = append(m.Calls, img.Page)
	if m.Err != nil {
		return nil, m.Err
	}
	frags := m.Pages[img.Page]
	out := make([]borehole.Fragment, len(frags))
	copy(out, frags)
	for i := range out {
		out[i].Page = img.Page
	}
	return out, nil
}

// Provider returns "mock".
func (m *MockExtractor) Provider() string { return "mock" }

// Model returns "static".
func (m *MockExtractor) Model() string { return "static" }

var _ Extractor = (*MockExtractor)(nil)
