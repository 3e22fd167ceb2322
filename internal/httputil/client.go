// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"fmt"
	"net/http"
	"time"
)

// NewClient returns a client with the given request timeout. All fetching in
// this tool is single-attempt: a timeout or bad status is reported to the
// caller, never retried.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Get issues one GET for url with the given User-Agent and returns the
// response. The caller owns the body. Non-2xx statuses are returned as
// responses, not errors; use CheckStatus when only 2xx is acceptable.
func Get(client *http.Client, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")

	return client.Do(req)
}

// CheckStatus closes the body and returns an error when the response status
// is outside the 2xx range.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	resp.Body.Close()
	return fmt.Errorf("unexpected status %s", resp.Status)
}
