// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagebinder/pkg/types"
)

// runReport is the YAML document written when a report path is set.
type runReport struct {
	GeneratedAt string                 `yaml:"generated_at"`
	Policy      types.ResolutionPolicy `yaml:"policy"`
	Written     int                    `yaml:"written"`
	Skipped     int                    `yaml:"skipped"`
	Failed      int                    `yaml:"failed"`
	Folders     []FolderResult         `yaml:"folders"`
}

// writeReport writes a YAML summary of the run to path.
func writeReport(path string, pol types.ResolutionPolicy, result RunResult) error {
	report := runReport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Policy:      pol,
		Written:     result.Written,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		Folders:     result.Folders,
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
