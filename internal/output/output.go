// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output persists extraction results as JSON documents.
// Implements: prd002-extraction (R4.4-R4.6);
//
//	docs/ARCHITECTURE § Persistence.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

// BuildResult assembles an ExtractionResult from one extraction run. The
// timestamp is UTC so results compare cleanly across machines (R4.2).
func BuildResult(subject, topic string, questions, sourceFiles []string) types.ExtractionResult {
	return types.ExtractionResult{
		Subject:       subject,
		Topic:         topic,
		QuestionCount: len(questions),
		ExtractedAt:   time.Now().UTC(),
		SourceFiles:   sourceFiles,
		Questions:     questions,
	}
}

// Save writes result to path as indented JSON, creating parent directories
// as needed (R4.4). Write failures are returned to the caller and terminate
// the surrounding command (R4.6).
func Save(result types.ExtractionResult, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads an extraction result previously written by Save (R4.5).
func Load(path string) (types.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ExtractionResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var result types.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return types.ExtractionResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}
