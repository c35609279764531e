// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// PolicyMode identifies the resolution-normalization strategy applied to
// every folder in a run.
type PolicyMode string

const (
	// ModeNthImage uses the native resolution of the folder's nth image.
	ModeNthImage PolicyMode = "nth"
	// ModeMaxResolution combines the maximum width and maximum height found
	// across the folder, possibly synthesizing an aspect ratio no source
	// image has.
	ModeMaxResolution PolicyMode = "max"
	// ModeFixedResolution resizes every image to an explicit width x height.
	ModeFixedResolution PolicyMode = "fixed"
	// ModeFixedWidth resizes every image to a fixed width, keeping each
	// image's own height (may distort).
	ModeFixedWidth PolicyMode = "width"
	// ModeFixedHeight resizes every image to a fixed height, keeping each
	// image's own width (may distort).
	ModeFixedHeight PolicyMode = "height"
	// ModeOriginalSize performs no resizing.
	ModeOriginalSize PolicyMode = "original"
)

// ResolutionPolicy is the (mode, parameter) pair selected once per run.
// Only the fields relevant to Mode are meaningful.
type ResolutionPolicy struct {
	Mode PolicyMode `json:"mode" yaml:"mode"`

	// Nth is the 1-based reference image index for ModeNthImage.
	Nth int `json:"nth,omitempty" yaml:"nth,omitempty"`

	// Width is the target width for ModeFixedResolution and ModeFixedWidth.
	Width int `json:"width,omitempty" yaml:"width,omitempty"`

	// Height is the target height for ModeFixedResolution and ModeFixedHeight.
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
}

// String renders the policy for status output.
func (p ResolutionPolicy) String() string {
	switch p.Mode {
	case ModeNthImage:
		return fmt.Sprintf("nth-image (n=%d)", p.Nth)
	case ModeFixedResolution:
		return fmt.Sprintf("fixed %dx%d", p.Width, p.Height)
	case ModeFixedWidth:
		return fmt.Sprintf("fixed width %d", p.Width)
	case ModeFixedHeight:
		return fmt.Sprintf("fixed height %d", p.Height)
	default:
		return string(p.Mode)
	}
}

// TargetSize is a folder-wide resolution in pixels. A nil *TargetSize means
// "no folder-wide target": original-size mode, or a per-image decision
// (fixed-width/fixed-height).
type TargetSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// String renders the size as "WxH".
func (t TargetSize) String() string {
	return fmt.Sprintf("%dx%d", t.Width, t.Height)
}
