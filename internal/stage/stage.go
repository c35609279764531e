// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stage turns source page images into normalized staging files
// ready for PDF assembly: it lists a folder's images in natural order,
// resolves the folder-wide target size for the selected policy, and
// decodes, resizes, flattens, and re-encodes each image into the
// staging area.
package stage

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Decoders for the recognized source formats. WebP has no encoder
	// here, so WebP sources are staged as JPEG.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/pdiddy/pagebinder/internal/natsort"
	"github.com/pdiddy/pagebinder/pkg/types"
)

// DecodeError reports an image that could not be opened or decoded.
// During folder processing it is isolated per image; during nth-image
// target resolution it aborts the folder, since nothing can proceed
// without the reference size.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// recognized extensions, lowercase.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ListImages returns the folder's recognized image files in natural-sort
// order. Subdirectories and other extensions are ignored. An empty result
// is not an error; the caller reports the folder as skipped.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	natsort.Strings(paths)
	return paths, nil
}

// probeSize reads an image's dimensions from its header without decoding
// pixel data.
func probeSize(path string) (w, h int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, &DecodeError{Path: path, Err: err}
	}
	return cfg.Width, cfg.Height, nil
}

// ResolveTargetSize computes the folder-wide resolution for the policy.
// images must be non-empty and already natural-sorted. A nil result means
// no folder-wide target: original-size mode and the per-image
// fixed-width/fixed-height modes decide at staging time instead.
func ResolveTargetSize(p types.ResolutionPolicy, images []string) (*types.TargetSize, error) {
	switch p.Mode {
	case types.ModeNthImage:
		idx := p.Nth - 1
		if idx < 0 {
			idx = 0
		}
		if idx > len(images)-1 {
			idx = len(images) - 1
		}
		w, h, err := probeSize(images[idx])
		if err != nil {
			return nil, err
		}
		return &types.TargetSize{Width: w, Height: h}, nil

	case types.ModeMaxResolution:
		// Width and height maxima are taken independently, so the result
		// can pair one image's width with another's height.
		var maxW, maxH int
		for _, img := range images {
			w, h, err := probeSize(img)
			if err != nil {
				return nil, err
			}
			if w > maxW {
				maxW = w
			}
			if h > maxH {
				maxH = h
			}
		}
		return &types.TargetSize{Width: maxW, Height: maxH}, nil

	case types.ModeFixedResolution:
		return &types.TargetSize{Width: p.Width, Height: p.Height}, nil

	default:
		return nil, nil
	}
}

// Image stages one source image into destDir and returns the staged path.
// The staged file keeps the source basename; WebP sources switch to a
// .jpg extension because the encoder set has no WebP writer. Resizing
// always uses Lanczos resampling with independent axis scaling.
func Image(srcPath, destDir string, p types.ResolutionPolicy, target *types.TargetSize, jpegQuality int) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", &DecodeError{Path: srcPath, Err: err}
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", &DecodeError{Path: srcPath, Err: err}
	}

	bounds := img.Bounds()
	switch p.Mode {
	case types.ModeOriginalSize:
		// No resize.
	case types.ModeFixedWidth:
		img = imaging.Resize(img, p.Width, bounds.Dy(), imaging.Lanczos)
	case types.ModeFixedHeight:
		img = imaging.Resize(img, bounds.Dx(), p.Height, imaging.Lanczos)
	default:
		if target != nil && (bounds.Dx() != target.Width || bounds.Dy() != target.Height) {
			img = imaging.Resize(img, target.Width, target.Height, imaging.Lanczos)
		}
	}

	if hasAlpha(img) {
		img = flatten(img)
	}

	destPath := filepath.Join(destDir, stagedName(srcPath))
	if err := imaging.Save(img, destPath, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encoding %s: %w", destPath, err)
	}
	return destPath, nil
}

// stagedName maps a source filename to its staging filename.
func stagedName(srcPath string) string {
	base := filepath.Base(srcPath)
	if strings.EqualFold(filepath.Ext(base), ".webp") {
		return strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
	}
	return base
}

// hasAlpha reports whether the image's color model carries an alpha channel.
func hasAlpha(img image.Image) bool {
	switch img.ColorModel() {
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model,
		color.AlphaModel, color.Alpha16Model:
		return true
	}
	if p, ok := img.ColorModel().(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// flatten drops the alpha channel, producing a fully opaque copy. The
// color values are kept as-is; transparency information is discarded.
func flatten(img image.Image) image.Image {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
