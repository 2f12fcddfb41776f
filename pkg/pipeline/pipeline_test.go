package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/cache"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/extraction"
)

func testImages() []extraction.PageImage {
	return []extraction.PageImage{
		{Page: 1, PNG: []byte("page one bytes")},
		{Page: 2, PNG: []byte("page two bytes")},
	}
}

func testExtractor() *extraction.MockExtractor {
	return &extraction.MockExtractor{
		Pages: map[int][]borehole.Fragment{
			1: {
				{
					Header: borehole.HeaderFragment{Name: "BH-1", Project: "Site A", Elevation: "100.00"},
					Layers: []borehole.LayerFragment{{DepthFrom: 0, DepthTo: 4, USCS: "CL", Description: "Lean clay"}},
					SPT:    []borehole.SPTFragment{{Depth: 1.5, BlowCount: 10}},
				},
			},
			2: {
				{
					Header: borehole.HeaderFragment{Name: "BH-2", Elevation: "98.50"},
					Layers: []borehole.LayerFragment{{DepthFrom: 0, DepthTo: 6, USCS: "SM"}},
				},
			},
		},
	}
}

func TestExecuteFromImages(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil, testExtractor())
	defer runner.Close()

	result, err := runner.ExecuteFromImages(context.Background(), testImages(), Options{
		Formats: []string{FormatSVG, FormatJSON},
		Title:   "Site A",
	})
	if err != nil {
		t.Fatalf("ExecuteFromImages: %v", err)
	}

	if result.Stats.PageCount != 2 {
		t.Errorf("PageCount = %d", result.Stats.PageCount)
	}
	if result.Stats.FragmentCount != 2 {
		t.Errorf("FragmentCount = %d", result.Stats.FragmentCount)
	}
	if result.Stats.BoreholeCount != 2 {
		t.Errorf("BoreholeCount = %d", result.Stats.BoreholeCount)
	}
	if len(result.Boreholes) != 2 || result.Boreholes[0].Header.Name != "BH-1" {
		t.Errorf("boreholes = %+v", result.Boreholes)
	}
	if result.BoreholeHash == "" {
		t.Error("BoreholeHash should be set")
	}
	if len(result.Layout.Columns) != 2 {
		t.Errorf("columns = %d", len(result.Layout.Columns))
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "BH-2") {
		t.Error("SVG artifact missing column")
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("JSON artifact missing")
	}
}

func TestExecuteBroadcastsProjectFields(t *testing.T) {
	runner := NewRunner(nil, nil, nil, testExtractor())
	defer runner.Close()

	result, err := runner.ExecuteFromImages(context.Background(), testImages(), Options{})
	if err != nil {
		t.Fatalf("ExecuteFromImages: %v", err)
	}

	// Only BH-1's fragment carries the project name; after reconciliation
	// every record has it.
	for _, bh := range result.Boreholes {
		if bh.Header.Project != "Site A" {
			t.Errorf("%s Project = %q, want %q", bh.Header.Name, bh.Header.Project, "Site A")
		}
	}
}

func TestExtractionCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ext := testExtractor()
	runner := NewRunner(c, nil, nil, ext)
	defer runner.Close()

	first, err := runner.ExecuteFromImages(ctx, testImages(), Options{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheInfo.ExtractHit {
		t.Error("first run should miss the extraction cache")
	}
	if len(ext.Calls) != 2 {
		t.Errorf("oracle calls = %d, want 2", len(ext.Calls))
	}

	second, err := runner.ExecuteFromImages(ctx, testImages(), Options{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.CacheInfo.ExtractHit {
		t.Error("second run should hit the extraction cache")
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if len(ext.Calls) != 2 {
		t.Errorf("cached run should not call the oracle again, calls = %d", len(ext.Calls))
	}
}

func TestRefreshBypassesExtractionCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ext := testExtractor()
	runner := NewRunner(c, nil, nil, ext)
	defer runner.Close()

	if _, err := runner.ExecuteFromImages(ctx, testImages(), Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := runner.ExecuteFromImages(ctx, testImages(), Options{Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if len(ext.Calls) != 4 {
		t.Errorf("refresh should re-query every page, calls = %d", len(ext.Calls))
	}
}

func TestExecuteNoUsableData(t *testing.T) {
	// Pages yield only nameless fragments; the pipeline must fail hard
	// instead of producing an empty chart.
	ext := &extraction.MockExtractor{
		Pages: map[int][]borehole.Fragment{
			1: {{Layers: []borehole.LayerFragment{{DepthFrom: 0, DepthTo: 2}}}},
		},
	}
	runner := NewRunner(nil, nil, nil, ext)
	defer runner.Close()

	_, err := runner.ExecuteFromImages(context.Background(), testImages()[:1], Options{})
	if err == nil {
		t.Fatal("expected error for unusable extraction output")
	}
	if !errors.Is(err, errors.ErrCodeNoUsableData) {
		t.Errorf("error code = %v, want NO_USABLE_DATA", errors.GetCode(err))
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil, testExtractor())
	defer runner.Close()

	_, err := runner.ExecuteFromImages(context.Background(), testImages(), Options{
		Formats: []string{"gif"},
	})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("empty input should fail validation")
	}

	opts = Options{Input: "logs.pdf"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Title != DefaultTitle {
		t.Errorf("Title = %q", opts.Title)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}
}
