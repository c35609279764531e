// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/pagebinder/pkg/types"
)

// writePNG creates a w x h PNG at path. If transparent is true the image
// carries an alpha channel with a non-opaque pixel.
func writePNG(t *testing.T, path string, w, h int, transparent bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	if transparent {
		img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// writeJPEG creates a w x h JPEG at path.
func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
}

// decodeSize reads back a staged file's pixel dimensions.
func decodeSize(t *testing.T, path string) (w, h int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Width, cfg.Height
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"p10.jpg", "p2.jpg", "p1.png", "notes.txt", "cover.JPEG", "raw.webp",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "extras.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "cover.JPEG"),
		filepath.Join(dir, "p1.png"),
		filepath.Join(dir, "p2.jpg"),
		filepath.Join(dir, "p10.jpg"),
		filepath.Join(dir, "raw.webp"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListImages() = %v, want %v", got, want)
	}
}

func TestListImagesEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ListImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("ListImages() = %v, want empty", got)
	}
}

func TestResolveTargetSize(t *testing.T) {
	dir := t.TempDir()
	sizes := []struct {
		name string
		w, h int
	}{
		{"a.png", 100, 200},
		{"b.png", 300, 50},
		{"c.png", 120, 80},
	}
	var images []string
	for _, s := range sizes {
		p := filepath.Join(dir, s.name)
		writePNG(t, p, s.w, s.h, false)
		images = append(images, p)
	}

	tests := []struct {
		name   string
		policy types.ResolutionPolicy
		want   *types.TargetSize
	}{
		{
			name:   "nth image",
			policy: types.ResolutionPolicy{Mode: types.ModeNthImage, Nth: 2},
			want:   &types.TargetSize{Width: 300, Height: 50},
		},
		{
			name:   "nth beyond folder clamps to last",
			policy: types.ResolutionPolicy{Mode: types.ModeNthImage, Nth: 99},
			want:   &types.TargetSize{Width: 120, Height: 80},
		},
		{
			name:   "nth zero clamps to first",
			policy: types.ResolutionPolicy{Mode: types.ModeNthImage, Nth: 0},
			want:   &types.TargetSize{Width: 100, Height: 200},
		},
		{
			name:   "max combines axes independently",
			policy: types.ResolutionPolicy{Mode: types.ModeMaxResolution},
			want:   &types.TargetSize{Width: 300, Height: 200},
		},
		{
			name:   "fixed width has no folder target",
			policy: types.ResolutionPolicy{Mode: types.ModeFixedWidth, Width: 800},
			want:   nil,
		},
		{
			name:   "fixed height has no folder target",
			policy: types.ResolutionPolicy{Mode: types.ModeFixedHeight, Height: 600},
			want:   nil,
		},
		{
			name:   "original size has no folder target",
			policy: types.ResolutionPolicy{Mode: types.ModeOriginalSize},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTargetSize(tt.policy, images)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveTargetSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveTargetSizeFixedNeedsNoFiles(t *testing.T) {
	// Paths that do not exist: fixed resolution must not decode anything.
	images := []string{"/nonexistent/a.jpg", "/nonexistent/b.jpg"}
	got, err := ResolveTargetSize(
		types.ResolutionPolicy{Mode: types.ModeFixedResolution, Width: 800, Height: 600},
		images,
	)
	if err != nil {
		t.Fatal(err)
	}
	want := &types.TargetSize{Width: 800, Height: 600}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveTargetSize() = %v, want %v", got, want)
	}
}

func TestResolveTargetSizeDecodeErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveTargetSize(
		types.ResolutionPolicy{Mode: types.ModeNthImage, Nth: 1},
		[]string{bad},
	)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Path != bad {
		t.Errorf("DecodeError.Path = %q, want %q", decodeErr.Path, bad)
	}
}

func TestImageOriginalSize(t *testing.T) {
	srcDir, destDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "page1.png")
	writePNG(t, src, 120, 90, false)

	staged, err := Image(src, destDir, types.ResolutionPolicy{Mode: types.ModeOriginalSize}, nil, 95)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(staged) != "page1.png" {
		t.Errorf("staged name = %q, want page1.png", filepath.Base(staged))
	}
	if w, h := decodeSize(t, staged); w != 120 || h != 90 {
		t.Errorf("staged size = %dx%d, want 120x90", w, h)
	}
}

func TestImageFixedResolution(t *testing.T) {
	srcDir, destDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "page1.jpg")
	writeJPEG(t, src, 300, 300)

	target := &types.TargetSize{Width: 100, Height: 50}
	staged, err := Image(src, destDir, types.ResolutionPolicy{Mode: types.ModeFixedResolution, Width: 100, Height: 50}, target, 95)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := decodeSize(t, staged); w != 100 || h != 50 {
		t.Errorf("staged size = %dx%d, want 100x50", w, h)
	}
}

func TestImageFixedWidthKeepsHeight(t *testing.T) {
	srcDir, destDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "page1.jpg")
	writeJPEG(t, src, 300, 200)

	staged, err := Image(src, destDir, types.ResolutionPolicy{Mode: types.ModeFixedWidth, Width: 150}, nil, 95)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := decodeSize(t, staged); w != 150 || h != 200 {
		t.Errorf("staged size = %dx%d, want 150x200", w, h)
	}
}

func TestImageFixedHeightKeepsWidth(t *testing.T) {
	srcDir, destDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "page1.jpg")
	writeJPEG(t, src, 300, 200)

	staged, err := Image(src, destDir, types.ResolutionPolicy{Mode: types.ModeFixedHeight, Height: 100}, nil, 95)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := decodeSize(t, staged); w != 300 || h != 100 {
		t.Errorf("staged size = %dx%d, want 300x100", w, h)
	}
}

func TestImageFlattensAlpha(t *testing.T) {
	srcDir, destDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "page1.png")
	writePNG(t, src, 10, 10, true)

	staged, err := Image(src, destDir, types.ResolutionPolicy{Mode: types.ModeOriginalSize}, nil, 95)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(staged)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	_, _, _, a := img.At(0, 0).RGBA()
	if a != 0xffff {
		t.Errorf("staged pixel alpha = %#x, want fully opaque", a)
	}
}

func TestImageDecodeError(t *testing.T) {
	srcDir, destDir := t.TempDir(), t.TempDir()
	src := filepath.Join(srcDir, "broken.jpg")
	if err := os.WriteFile(src, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Image(src, destDir, types.ResolutionPolicy{Mode: types.ModeOriginalSize}, nil, 95)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestStagedName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/in/book/page1.jpg", "page1.jpg"},
		{"/in/book/page1.png", "page1.png"},
		{"/in/book/page1.webp", "page1.jpg"},
		{"/in/book/page1.WEBP", "page1.jpg"},
	}
	for _, tt := range tests {
		if got := stagedName(tt.in); got != tt.want {
			t.Errorf("stagedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
