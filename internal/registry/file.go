// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Load reads a YAML registry file and returns the validated Registry.
//
// The file mirrors Spec:
//
//	domains:
//	  academic: [arxiv.org, openreview.net]
//	  ...
//	priority:
//	  academic: 1.0
//	  ...
//	target_distribution:
//	  academic: 0.4
//	  ...
func Load(path string, opts ...Option) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing registry file %s: %w", path, err)
	}
	r, err := New(spec, opts...)
	if err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}
	return r, nil
}

// WriteYAML writes the registry content in the format Load reads.
func (r *Registry) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(r.Spec())
}
