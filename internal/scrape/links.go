// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Search page URL templates. {subject} and {topic} are replaced with
// query-escaped values. Declared as vars so tests can substitute httptest
// servers. Per prd001-scraping R1.1.
var searchURLTemplates = []string{
	"https://example-academic-site.com/search?q={subject}+{topic}+exam",
	"https://papers.example.com/search?subject={subject}&topic={topic}",
}

// PaperLink is one candidate exam paper discovered on a search page.
type PaperLink struct {
	URL     string
	Title   string
	Subject string
	Topic   string
}

// SearchURLs expands every search template for the given subject and topic (R1.2).
func SearchURLs(subject, topic string) []string {
	urls := make([]string, 0, len(searchURLTemplates))
	for _, tmpl := range searchURLTemplates {
		u := strings.ReplaceAll(tmpl, "{subject}", url.QueryEscape(subject))
		u = strings.ReplaceAll(u, "{topic}", url.QueryEscape(topic))
		urls = append(urls, u)
	}
	return urls
}

// FindPaperLinks scans a search-results page for anchors pointing at PDFs
// that mention both subject and topic, in the link text or the target URL
// (R2.1, R2.2). Relative targets are resolved against base. At most max
// links are returned; max <= 0 means no cap (R2.3).
func FindPaperLinks(r io.Reader, base *url.URL, subject, topic string, max int) ([]PaperLink, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	subjectLower := strings.ToLower(subject)
	topicLower := strings.ToLower(topic)

	var links []PaperLink
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if max > 0 && len(links) >= max {
			return
		}
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		if !strings.Contains(strings.ToLower(href), "pdf") {
			return
		}

		text := strings.TrimSpace(s.Text())
		if !mentionsBoth(strings.ToLower(text), strings.ToLower(href), subjectLower, topicLower) {
			return
		}

		resolved := href
		if base != nil {
			if u, parseErr := url.Parse(href); parseErr == nil {
				resolved = base.ResolveReference(u).String()
			}
		}

		title := text
		if title == "" {
			title = fmt.Sprintf("%s_%s_paper", subject, topic)
		}

		links = append(links, PaperLink{
			URL:     resolved,
			Title:   title,
			Subject: subject,
			Topic:   topic,
		})
	})

	return links, nil
}

// mentionsBoth reports whether subject and topic each appear in the link
// text or the target URL. All arguments must already be lowercased.
func mentionsBoth(text, href, subject, topic string) bool {
	return (strings.Contains(text, subject) || strings.Contains(href, subject)) &&
		(strings.Contains(text, topic) || strings.Contains(href, topic))
}

// SafeFilename derives a filesystem-safe PDF filename from a link title.
// Letters, digits, spaces, dashes, and underscores survive; trailing spaces
// are trimmed and remaining spaces become underscores (R3.2).
func SafeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimRight(b.String(), " ")
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".pdf"
}
