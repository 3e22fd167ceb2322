// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ag-ppr pipeline.
// Implements: prd001-scraping (DownloadRecord, R3.1);
//
//	prd002-extraction (ExtractionResult, R4.1-R4.3).
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

import "time"

// DownloadRecord holds metadata for one downloaded exam paper, persisted as a
// YAML sidecar next to the PDF. Per prd001-scraping R3.1: title, source URL,
// search subject and topic, payload size, and download time.
type DownloadRecord struct {
	// Title is the paper title as it appeared in the search-result link text.
	Title string `json:"title" yaml:"title"`

	// SourceURL is the URL from which the PDF was downloaded.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// Subject is the search subject that located this paper.
	Subject string `json:"subject" yaml:"subject"`

	// Topic is the search topic that located this paper.
	Topic string `json:"topic" yaml:"topic"`

	// PDFPath is the local filesystem path to the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// SizeBytes is the size of the downloaded payload.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`

	// DownloadedAt is when the download completed.
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`
}
