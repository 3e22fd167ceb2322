// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract identifies exam questions within document text.
// questions.go handles line classification, cleanup, and deduplication.
// Implements: prd002-extraction (R1, R2);
//
//	docs/ARCHITECTURE § Extraction.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// minCandidateLen is the shortest line, in runes, the matcher will consider.
	minCandidateLen = 10

	// minQuestionLen is the floor, in runes, a cleaned question must exceed
	// to be kept.
	minQuestionLen = 15
)

// Question line patterns (R1.1), tried in order; the first match decides.
var (
	// numberedRe matches numbered question lines like "1. ...?" or "2) ...?".
	numberedRe = regexp.MustCompile(`(?i)^\s*\d+[.)]\s*.+\?`)

	// letteredRe matches lettered lines like "A) ...?".
	letteredRe = regexp.MustCompile(`(?i)^\s*[A-Z]\)\s*.+\?`)

	// labelledRe matches lines labelled "Question 3:" or "Question 3.".
	labelledRe = regexp.MustCompile(`(?i)^\s*Question\s+\d+[:.]?\s*.+`)

	// shortLabelRe matches lines labelled "Q3:" or "Q3.".
	shortLabelRe = regexp.MustCompile(`(?i)^\s*Q\d+[:.]?\s*.+`)

	// trailingQRe matches any line ending in a question mark.
	trailingQRe = regexp.MustCompile(`(?i)^.+\?\s*$`)
)

// questionLineRes is the ordered pattern set used by MatchQuestion.
var questionLineRes = []*regexp.Regexp{numberedRe, letteredRe, labelledRe, shortLabelRe, trailingQRe}

// questionPrefixRes are the prefix forms CleanQuestion strips, in the same
// order as the matcher patterns (R2.2).
var questionPrefixRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\d+[.)]\s*`),
	regexp.MustCompile(`(?i)^[A-Z]\)\s*`),
	regexp.MustCompile(`(?i)^Question\s+\d+[:.]?\s*`),
	regexp.MustCompile(`(?i)^Q\d+[:.]?\s*`),
}

// whitespaceRe collapses runs of whitespace during cleanup.
var whitespaceRe = regexp.MustCompile(`\s+`)

// MatchQuestion reports whether line is a question candidate. Lines shorter
// than minCandidateLen are rejected before any pattern is tried; after that
// the ordered pattern set decides, first match wins (R1.1-R1.3).
func MatchQuestion(line string) bool {
	trimmed := strings.TrimSpace(line)
	if utf8.RuneCountInString(trimmed) < minCandidateLen {
		return false
	}
	for _, re := range questionLineRes {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// CleanQuestion normalizes a matched line: internal whitespace collapses to
// single spaces and the first recognized prefix form (numeric, lettered,
// "Question N", "QN") is stripped (R2.1-R2.2). A line with no remaining
// prefix passes through unchanged.
func CleanQuestion(line string) string {
	q := strings.TrimSpace(whitespaceRe.ReplaceAllString(line, " "))
	for _, re := range questionPrefixRes {
		if re.MatchString(q) {
			q = re.ReplaceAllString(q, "")
			break
		}
	}
	return strings.TrimSpace(q)
}

// Dedupe removes exact-duplicate questions, keeping the first occurrence and
// preserving order (R2.4).
func Dedupe(questions []string) []string {
	seen := make(map[string]bool, len(questions))
	var out []string
	for _, q := range questions {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// ExtractQuestions scans raw document text line by line and returns the
// cleaned, deduplicated questions in order of first occurrence. Cleaned
// questions at or under minQuestionLen are discarded (R2.3).
func ExtractQuestions(text string) []string {
	var matched []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if MatchQuestion(line) {
			matched = append(matched, line)
		}
	}

	var cleaned []string
	for _, q := range matched {
		c := CleanQuestion(q)
		if utf8.RuneCountInString(c) > minQuestionLen {
			cleaned = append(cleaned, c)
		}
	}

	return Dedupe(cleaned)
}
