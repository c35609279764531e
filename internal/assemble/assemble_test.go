// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
}

func TestPDF(t *testing.T) {
	dir := t.TempDir()
	var images []string
	for _, name := range []string{"p1.jpg", "p2.jpg", "p3.jpg"} {
		p := filepath.Join(dir, name)
		writeJPEG(t, p, 40, 60)
		images = append(images, p)
	}
	outPath := filepath.Join(dir, "book.pdf")

	require.NoError(t, PDF(images, outPath))

	pages, err := PageCount(outPath)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestPDFOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "p1.jpg")
	writeJPEG(t, img, 40, 60)
	outPath := filepath.Join(dir, "book.pdf")

	// First run with one image, second run again with one image: the
	// output must be replaced, not appended to.
	require.NoError(t, PDF([]string{img}, outPath))
	require.NoError(t, PDF([]string{img}, outPath))

	pages, err := PageCount(outPath)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestPDFEmptyInput(t *testing.T) {
	err := PDF(nil, filepath.Join(t.TempDir(), "book.pdf"))
	assert.Error(t, err)
}
