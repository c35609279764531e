// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RunConfig holds all filesystem and encoding settings for one run.
// It is built once at startup from flags and config file and passed
// explicitly through the pipeline; nothing reads it as a global.
type RunConfig struct {
	// BaseDir anchors the input/output/staging directories. It is the
	// working directory in normal runs, or the executable's directory
	// in portable runs.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// InputDir contains one subfolder of page images per book.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives one <folder>.pdf per processed input subfolder.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// JPEGQuality is the encoder quality for staged JPEG images (default 95).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`

	// ReportPath, when non-empty, is where the YAML run report is written.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}
