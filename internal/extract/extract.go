// Package extract identifies exam questions within document text.
// Implements: prd002-extraction (R1-R3);
//
//	docs/ARCHITECTURE § Extraction.
package extract

import (
	"fmt"

	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

// TextSource provides the raw text of a document. The PDF implementation
// lives in internal/pdftext; tests supply fakes.
type TextSource interface {
	ExtractText(path string) (string, error)
}

// ExtractFile pulls topic-related questions out of one document: text
// extraction via src, then line matching, cleanup, deduplication, and topic
// filtering. A nil cfg.Expansions falls back to DefaultExpansions.
func ExtractFile(src TextSource, path, topic string, cfg types.ExtractConfig) ([]string, error) {
	text, err := src.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	questions := ExtractQuestions(text)

	expansions := cfg.Expansions
	if expansions == nil {
		expansions = DefaultExpansions()
	}
	return FilterByTopic(questions, topic, expansions), nil
}
