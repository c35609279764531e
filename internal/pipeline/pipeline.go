// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives a whole run: directory setup, the single
// policy selection, per-folder processing with failure isolation, and
// guaranteed teardown of the staging area.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/pagebinder/internal/assemble"
	"github.com/pdiddy/pagebinder/internal/natsort"
	"github.com/pdiddy/pagebinder/internal/policy"
	"github.com/pdiddy/pagebinder/internal/stage"
	"github.com/pdiddy/pagebinder/pkg/types"
)

// FolderStatus is the outcome of processing one input subfolder.
type FolderStatus string

const (
	// StatusWritten means the folder produced an output PDF.
	StatusWritten FolderStatus = "written"
	// StatusSkipped means the folder had no stageable images and was
	// passed over without error.
	StatusSkipped FolderStatus = "skipped"
	// StatusFailed means an unrecoverable per-folder error occurred.
	StatusFailed FolderStatus = "failed"
)

// FolderResult records one folder's outcome for the summary and report.
type FolderResult struct {
	Folder       string       `json:"folder" yaml:"folder"`
	Status       FolderStatus `json:"status" yaml:"status"`
	PDFPath      string       `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`
	Pages        int          `json:"pages,omitempty" yaml:"pages,omitempty"`
	FailedImages int          `json:"failed_images,omitempty" yaml:"failed_images,omitempty"`
	Error        string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunResult holds the outcome of a batch run.
type RunResult struct {
	Written int            `json:"written" yaml:"written"`
	Skipped int            `json:"skipped" yaml:"skipped"`
	Failed  int            `json:"failed" yaml:"failed"`
	Folders []FolderResult `json:"folders" yaml:"folders"`
}

// Total returns the total number of folders processed.
func (r RunResult) Total() int {
	return r.Written + r.Skipped + r.Failed
}

// HasFailures reports whether any folder failed.
func (r RunResult) HasFailures() bool {
	return r.Failed > 0
}

// Run executes the whole batch: it creates the input/output directories,
// obtains one policy from src, processes every immediate subfolder of the
// input directory, and removes the staging area on every exit path.
func Run(cfg types.RunConfig, src policy.Source, w io.Writer) (RunResult, error) {
	var result RunResult

	for _, dir := range []string{cfg.InputDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	pol, err := src.Policy()
	if err != nil {
		return result, err
	}
	fmt.Fprintf(w, "Policy: %s\n", pol)

	stagingRoot, err := os.MkdirTemp(cfg.BaseDir, "pagebinder-stage-")
	if err != nil {
		return result, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(stagingRoot)

	folders, err := listFolders(cfg.InputDir)
	if err != nil {
		return result, err
	}

	for _, name := range folders {
		fr := processFolder(cfg, pol, name, filepath.Join(stagingRoot, name), w)
		result.Folders = append(result.Folders, fr)
		switch fr.Status {
		case StatusWritten:
			result.Written++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d written, %d skipped, %d failed (total: %d)\n",
		result.Written, result.Skipped, result.Failed, result.Total())

	if cfg.ReportPath != "" {
		if err := writeReport(cfg.ReportPath, pol, result); err != nil {
			fmt.Fprintf(w, "warning: writing report: %v\n", err)
		} else {
			fmt.Fprintf(w, "Report written to %s\n", cfg.ReportPath)
		}
	}
	return result, nil
}

// listFolders returns the names of the immediate subdirectories of
// inputDir in natural-sort order. Plain files are ignored.
func listFolders(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", inputDir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	natsort.Strings(names)
	return names, nil
}

// processFolder runs one input subfolder end to end. Per-image failures
// are logged and skipped; anything that prevents the folder from
// producing its PDF marks the folder failed without aborting the run.
func processFolder(cfg types.RunConfig, pol types.ResolutionPolicy, name, stagingDir string, w io.Writer) FolderResult {
	fr := FolderResult{Folder: name}
	folderPath := filepath.Join(cfg.InputDir, name)

	images, err := stage.ListImages(folderPath)
	if err != nil {
		return fail(fr, w, err)
	}
	if len(images) == 0 {
		fmt.Fprintf(w, "skipped: %s (no images)\n", name)
		fr.Status = StatusSkipped
		return fr
	}

	target, err := stage.ResolveTargetSize(pol, images)
	if err != nil {
		return fail(fr, w, err)
	}

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fail(fr, w, fmt.Errorf("creating staging directory: %w", err))
	}

	bar := progressbar.NewOptions(len(images),
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)

	var staged []string
	for _, img := range images {
		stagedPath, err := stage.Image(img, stagingDir, pol, target, cfg.JPEGQuality)
		if err != nil {
			fmt.Fprintf(w, "\nfailed:  %s (%v)\n", img, err)
			fr.FailedImages++
		} else {
			staged = append(staged, stagedPath)
		}
		bar.Add(1)
	}

	if len(staged) == 0 {
		fmt.Fprintf(w, "skipped: %s (no images staged)\n", name)
		fr.Status = StatusSkipped
		return fr
	}

	pdfPath := filepath.Join(cfg.OutputDir, name+".pdf")
	if err := assemble.PDF(staged, pdfPath); err != nil {
		return fail(fr, w, err)
	}

	fr.Status = StatusWritten
	fr.PDFPath = pdfPath
	fr.Pages = len(staged)
	fmt.Fprintf(w, "written: %s (%d pages)\n", pdfPath, len(staged))
	return fr
}

// fail marks a folder result failed and logs the error.
func fail(fr FolderResult, w io.Writer, err error) FolderResult {
	fmt.Fprintf(w, "failed:  %s (%v)\n", fr.Folder, err)
	fr.Status = StatusFailed
	fr.Error = err.Error()
	return fr
}
