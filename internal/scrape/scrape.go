// Package scrape discovers exam papers on search pages and downloads them.
// Implements: prd001-scraping (R1-R5);
//
//	docs/ARCHITECTURE § Scraping.
package scrape

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/console"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/httputil"
	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

// minPDFSize is the smallest body accepted when the response does not
// declare a PDF content type (R3.5).
const minPDFSize = 1000

// BatchResult holds the outcome of a batch scraping run (R4.3).
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int

	// Searched counts search pages attempted; SearchFailures counts the ones
	// that could not be fetched or parsed.
	Searched       int
	SearchFailures int

	Records []*types.DownloadRecord
}

// Total returns the total number of candidate links processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// AllSearchesFailed reports whether every search source failed, leaving the
// batch with nothing to try.
func (r BatchResult) AllSearchesFailed() bool {
	return r.Searched > 0 && r.SearchFailures == r.Searched
}

// Files returns the PDF paths of every record in the batch, skipped papers
// included.
func (r BatchResult) Files() []string {
	files := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		files = append(files, rec.PDFPath)
	}
	return files
}

// Scraper downloads exam papers discovered on the configured search pages.
// Searches and downloads use separate clients because their timeouts differ
// (R5.1).
type Scraper struct {
	searchClient   *http.Client
	downloadClient *http.Client
	cfg            types.ScrapeConfig
}

// New returns a Scraper for the given configuration.
func New(cfg types.ScrapeConfig) *Scraper {
	return &Scraper{
		searchClient:   httputil.NewClient(cfg.Timeout),
		downloadClient: httputil.NewClient(cfg.DownloadTimeout),
		cfg:            cfg,
	}
}

// ScrapeBatch searches every configured source for subject and topic, then
// downloads each discovered paper, printing per-item status and a summary.
// Per-source and per-link failures are reported and skipped; the batch
// continues (R4.1, R4.2). A delay is applied between consecutive downloads
// (R5.2).
func (s *Scraper) ScrapeBatch(subject, topic string, w io.Writer) (BatchResult, error) {
	var result BatchResult

	if err := os.MkdirAll(s.cfg.PapersDir, 0o755); err != nil {
		return result, fmt.Errorf("creating papers directory: %w", err)
	}

	var links []PaperLink
	for _, searchURL := range SearchURLs(subject, topic) {
		result.Searched++
		fmt.Fprintf(w, "searching: %s\n", searchURL)
		found, err := s.searchPapers(searchURL, subject, topic)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", searchURL, err)
			result.SearchFailures++
			continue
		}
		links = append(links, found...)
	}

	for i, link := range links {
		if i > 0 && s.cfg.DownloadDelay > 0 {
			time.Sleep(s.cfg.DownloadDelay)
		}
		rec, wasSkipped, err := s.downloadPaper(link, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", link.URL, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Records = append(result.Records, rec)
	}

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// searchPapers fetches one search page and extracts candidate links (R2).
func (s *Scraper) searchPapers(searchURL, subject, topic string) ([]PaperLink, error) {
	resp, err := httputil.Get(s.searchClient, searchURL, s.cfg.UserAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := httputil.CheckStatus(resp); err != nil {
		return nil, err
	}

	base, err := url.Parse(searchURL)
	if err != nil {
		return nil, fmt.Errorf("parsing search URL: %w", err)
	}
	return FindPaperLinks(resp.Body, base, subject, topic, s.cfg.MaxPerSource)
}

// downloadPaper fetches one candidate link into the papers directory and
// writes a YAML sidecar next to the PDF. If the target file already exists
// the download is skipped (R3.3).
func (s *Scraper) downloadPaper(link PaperLink, w io.Writer) (*types.DownloadRecord, bool, error) {
	filename := SafeFilename(link.Title)
	pdfPath := filepath.Join(s.cfg.PapersDir, filename)
	metaPath := sidecarPath(pdfPath)

	if _, err := os.Stat(pdfPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", filename)
		rec, readErr := readRecord(metaPath)
		if readErr != nil {
			rec = &types.DownloadRecord{
				Title:     link.Title,
				SourceURL: link.URL,
				Subject:   link.Subject,
				Topic:     link.Topic,
				PDFPath:   pdfPath,
			}
		}
		return rec, true, nil
	}

	fmt.Fprintf(w, "downloading: %s\n", filename)

	size, pdfMagic, err := s.downloadFile(link.URL, pdfPath)
	if err != nil {
		return nil, false, err
	}
	if !pdfMagic {
		fmt.Fprintf(w, "  warning: %s does not start with %%PDF\n", filename)
	}

	rec := &types.DownloadRecord{
		Title:        link.Title,
		SourceURL:    link.URL,
		Subject:      link.Subject,
		Topic:        link.Topic,
		PDFPath:      pdfPath,
		SizeBytes:    size,
		DownloadedAt: time.Now().UTC(),
	}
	if err := writeRecord(rec, metaPath); err != nil {
		fmt.Fprintf(w, "  warning: writing sidecar for %s: %v\n", filename, err)
	}

	fmt.Fprintf(w, "downloaded: %s (%s)\n", filename, console.FormatSize(size))
	return rec, false, nil
}

// downloadFile fetches url to destPath through a temporary file, renaming on
// success (R3.4). The response must either declare a PDF content type or
// carry at least minPDFSize bytes (R3.5). The second return value reports
// whether the payload starts with the %PDF magic.
func (s *Scraper) downloadFile(rawURL, destPath string) (int64, bool, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := s.downloadClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".scrape-*.tmp")
	if err != nil {
		return 0, false, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	var head [4]byte
	n0, headErr := io.ReadFull(resp.Body, head[:])
	if headErr != nil && headErr != io.EOF && headErr != io.ErrUnexpectedEOF {
		tmpFile.Close()
		os.Remove(tmpPath)
		return 0, false, fmt.Errorf("reading download: %w", headErr)
	}

	n, copyErr := io.Copy(tmpFile, io.MultiReader(bytes.NewReader(head[:n0]), resp.Body))
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, false, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, false, fmt.Errorf("closing temp file: %w", closeErr)
	}

	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ctype, "pdf") && n < minPDFSize {
		os.Remove(tmpPath)
		return 0, false, fmt.Errorf("response is not a PDF (content-type %q, %d bytes)", ctype, n)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, false, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, bytes.Equal(head[:n0], []byte("%PDF")), nil
}

// sidecarPath returns the YAML metadata path alongside a downloaded PDF.
func sidecarPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".yaml"
}

// writeRecord writes a DownloadRecord to a YAML sidecar (R3.1).
func writeRecord(rec *types.DownloadRecord, path string) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// readRecord reads a DownloadRecord from a YAML sidecar.
func readRecord(path string) (*types.DownloadRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec types.DownloadRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
