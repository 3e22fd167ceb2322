// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from PDF documents page by page.
// Implements: prd002-extraction (R1.4);
//
//	docs/ARCHITECTURE § Extraction.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"
)

// Extractor pulls text out of PDF files. It satisfies the TextSource
// capability consumed by internal/extract.
type Extractor struct{}

// New returns a PDF text extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractText returns the concatenated text of every readable page of the PDF
// at path. Pages that cannot be parsed are logged and skipped, so partial
// documents still yield text. Only an unopenable document, or one where no
// page is readable, is an error.
func (e *Extractor) ExtractText(path string) (string, error) {
	r, err := reader.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return "", fmt.Errorf("reading page count of %s: %w", path, err)
	}

	var b strings.Builder
	pagesRead := 0
	for page := 1; page <= count; page++ {
		text, warnings, err := tabula.FromReader(r).Pages(page).Text()
		if err != nil {
			log.Warn().Str("file", path).Int("page", page).Err(err).
				Msg("skipping unreadable page")
			continue
		}
		for _, warn := range warnings {
			log.Debug().Str("file", path).Int("page", page).Msg(warn.Message)
		}
		b.WriteString(text)
		b.WriteString("\n")
		pagesRead++
	}

	if pagesRead == 0 {
		return "", fmt.Errorf("no readable pages in %s", path)
	}
	return b.String(), nil
}
