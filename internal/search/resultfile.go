// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/credible-research/pkg/types"
)

// ResultFile is the on-disk form of one credible search and its results,
// so a run can be reloaded and reviewed without querying the provider again.
type ResultFile struct {
	Query   ResultQuery          `yaml:"query"`
	Results []types.ScoredResult `yaml:"results"`
	Summary ResultSummary        `yaml:"summary"`
}

// ResultQuery records what was asked.
type ResultQuery struct {
	Kind       string                 `yaml:"kind"`
	Text       string                 `yaml:"text"`
	Categories []types.SourceCategory `yaml:"categories,omitempty"`
	NumResults int                    `yaml:"num_results"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total        int                          `yaml:"total"`
	Distribution map[types.SourceCategory]int `yaml:"distribution,omitempty"`
	Timestamp    time.Time                    `yaml:"timestamp"`
}

// NewResultFile assembles a ResultFile stamped with the current time.
func NewResultFile(q ResultQuery, results []types.ScoredResult) ResultFile {
	return ResultFile{
		Query:   q,
		Results: results,
		Summary: ResultSummary{
			Total:        len(results),
			Distribution: Distribution(results),
			Timestamp:    time.Now().UTC(),
		},
	}
}

// WriteResultFile saves rf to path as YAML.
func WriteResultFile(path string, rf ResultFile) error {
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
