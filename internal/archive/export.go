// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes every run matching opts, with results and verdicts, to w.
func (s *Store) Export(ctx context.Context, w io.Writer, format string, opts ListOptions) error {
	runs, err := s.exportRuns(ctx, opts)
	if err != nil {
		return err
	}

	switch format {
	case FormatYAML, "":
		data, err := yaml.Marshal(runs)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	default:
		return fmt.Errorf("unknown export format %q: use yaml or json", format)
	}
}

// ExportFile writes the archive to dir/export.<format> and returns the path.
func (s *Store) ExportFile(ctx context.Context, format string, opts ListOptions) (string, error) {
	if format == "" {
		format = FormatYAML
	}
	path := filepath.Join(s.dir, "export."+format)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	if err := s.Export(ctx, f, format, opts); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func (s *Store) exportRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	opts.Limit = exportLimit
	summaries, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	runs := make([]Run, 0, len(summaries))
	for _, sum := range summaries {
		run, err := s.Get(ctx, sum.ID)
		if err != nil {
			return nil, fmt.Errorf("loading run %s: %w", sum.ID, err)
		}
		runs = append(runs, *run)
	}
	return runs, nil
}
