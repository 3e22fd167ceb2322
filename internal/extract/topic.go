// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"sort"
	"strings"
)

// DefaultExpansions returns the built-in topic keyword expansions. When a
// keyword appears in the topic, questions mentioning any of its terms are
// retained even without direct token overlap (R3.3). The mapping is plain
// data; configuration may replace it.
func DefaultExpansions() map[string][]string {
	return map[string][]string{
		"algebra": {"matrix", "vector", "equation", "system"},
	}
}

// FilterByTopic retains, in input order, every question related to topic. A
// question is kept when any whitespace-split lowercase topic token appears as
// a substring of the lowercased question (R3.1-R3.2), or when a keyword
// expansion active for the topic matches (R3.3). Binary inclusion, no
// scoring. An empty topic means no filter: all questions pass.
func FilterByTopic(questions []string, topic string, expansions map[string][]string) []string {
	if topic == "" {
		return questions
	}

	tokens := strings.Fields(strings.ToLower(topic))
	terms := expansionTerms(topic, expansions)

	var kept []string
	for _, q := range questions {
		lower := strings.ToLower(q)
		if containsAny(lower, tokens) || containsAny(lower, terms) {
			kept = append(kept, q)
		}
	}
	return kept
}

// expansionTerms collects the lowercased expansion terms of every keyword
// present in the lowercased topic, in sorted keyword order so the result is
// deterministic.
func expansionTerms(topic string, expansions map[string][]string) []string {
	lowerTopic := strings.ToLower(topic)

	keywords := make([]string, 0, len(expansions))
	for k := range expansions {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	var terms []string
	for _, k := range keywords {
		if !strings.Contains(lowerTopic, strings.ToLower(k)) {
			continue
		}
		for _, t := range expansions[k] {
			terms = append(terms, strings.ToLower(t))
		}
	}
	return terms
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
