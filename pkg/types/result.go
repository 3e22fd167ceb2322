// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractionResult holds the questions produced by one extraction run, in the
// exact shape persisted to the outputs JSON. Per prd002-extraction R4.1-R4.3.
type ExtractionResult struct {
	// Subject is the exam subject the run targeted (may be empty for
	// single-file extraction without --subject).
	Subject string `json:"subject" yaml:"subject"`

	// Topic is the topic filter applied to candidate questions.
	Topic string `json:"topic" yaml:"topic"`

	// QuestionCount mirrors len(Questions) for consumers that read the JSON
	// without loading the full questions array.
	QuestionCount int `json:"question_count" yaml:"question_count"`

	// ExtractedAt is the UTC completion time of the run.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`

	// SourceFiles lists the documents questions were extracted from, in
	// processing order.
	SourceFiles []string `json:"source_files" yaml:"source_files"`

	// Questions are the normalized, deduplicated questions in order of first
	// occurrence.
	Questions []string `json:"questions" yaml:"questions"`
}
