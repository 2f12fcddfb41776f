// Package pages turns input files into the page images the extraction oracle
// consumes.
//
// PDF documents are split into one image per page. Page counting uses pdfcpu;
// rasterization shells out to pdftoppm (poppler-utils) because pdfcpu extracts
// embedded image objects rather than rendering pages, and embedded object
// order does not reliably match page order on scanned log reports. Plain
// image files pass through untouched as single-page inputs.
package pages

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/extraction"
)

// renderDPI is the pdftoppm rasterization resolution. 300 DPI keeps small
// log-sheet print legible to the vision model.
const renderDPI = "300"

// imageExts lists the pass-through image extensions.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Load reads an input path and returns its page images in document order.
// The path may be a PDF, a single image, or a directory of images (sorted by
// filename).
func Load(ctx context.Context, path string) ([]extraction.PageImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
	}

	if info.IsDir() {
		return loadDir(ctx, path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".pdf":
		return loadPDF(ctx, path)
	case imageExts[ext]:
		img, err := loadImage(path, 1)
		if err != nil {
			return nil, err
		}
		return []extraction.PageImage{img}, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported input format %q", filepath.Ext(path))
	}
}

// PageCount returns the number of pages a PDF contains.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "opening %s", path)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "reading page count of %s", path)
	}
	return n, nil
}

// loadPDF rasterizes every page of a PDF.
func loadPDF(ctx context.Context, path string) ([]extraction.PageImage, error) {
	count, err := PageCount(path)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s has no pages", path)
	}

	images := make([]extraction.PageImage, 0, count)
	for page := 1; page <= count; page++ {
		png, err := renderPage(ctx, path, page)
		if err != nil {
			return nil, err
		}
		images = append(images, extraction.PageImage{Page: page, PNG: png})
	}
	return images, nil
}

// renderPage renders one PDF page to PNG bytes via pdftoppm.
func renderPage(ctx context.Context, path string, page int) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "geosect-page-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating temp dir")
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	pageStr := fmt.Sprintf("%d", page)

	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", renderDPI,
		"-singlefile",
		path,
		prefix,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pdftoppm failed on page %d: %s", page, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading rendered page %d", page)
	}
	return data, nil
}

// loadDir loads every image file in a directory as consecutive pages,
// ordered by filename.
func loadDir(ctx context.Context, dir string) ([]extraction.PageImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "reading %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s contains no image files", dir)
	}
	sort.Strings(names)

	images := make([]extraction.PageImage, 0, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := loadImage(filepath.Join(dir, name), i+1)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// loadImage reads one image file as the given page number.
func loadImage(path string, page int) (extraction.PageImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extraction.PageImage{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
	}
	return extraction.PageImage{Page: page, PNG: data}, nil
}
