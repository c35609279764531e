// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble builds the output PDF for a folder from its staged
// images. PDF construction is delegated to pdfcpu; with the default
// import configuration each image becomes one page whose dimensions
// equal the image's pixel size (1px = 1pt).
package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDF writes the staged images, in the given order, to outPath as a
// one-page-per-image PDF, overwriting any existing file. imagePaths must
// be non-empty; callers skip folders with no staged images.
func PDF(imagePaths []string, outPath string) error {
	if len(imagePaths) == 0 {
		return fmt.Errorf("no images to assemble for %s", outPath)
	}

	// pdfcpu appends to an existing output file, so overwrite explicitly.
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale %s: %w", outPath, err)
	}

	if err := api.ImportImagesFile(imagePaths, outPath, nil, nil); err != nil {
		return fmt.Errorf("assembling %s: %w", filepath.Base(outPath), err)
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
