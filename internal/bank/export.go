// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one question with its extraction metadata for export (R3.3).
type ExportEntry struct {
	Question     string    `json:"question" yaml:"question"`
	Subject      string    `json:"subject" yaml:"subject"`
	Topic        string    `json:"topic" yaml:"topic"`
	ExtractionID string    `json:"extraction_id" yaml:"extraction_id"`
	ExtractedAt  time.Time `json:"extracted_at" yaml:"extracted_at"`
}

const exportLimit = 100000

// DefaultExportPath returns the conventional export location under the index
// directory for the given format.
func (s *Store) DefaultExportPath(format string) string {
	return filepath.Join(s.indexDir, "export."+format)
}

// ExportYAML writes the question bank to path as YAML (R3.1). It supports
// the same filters as Search (R3.4).
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, path string) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the question bank to path as indented JSON (R3.2). It
// supports the same filters as Search (R3.4).
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, path string) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			Question:     r.Question,
			Subject:      r.Subject,
			Topic:        r.Topic,
			ExtractionID: r.ExtractionID,
			ExtractedAt:  r.ExtractedAt,
		}
	}

	return entries, nil
}
