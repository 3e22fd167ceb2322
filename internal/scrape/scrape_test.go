// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

// fakePDF exceeds minPDFSize so downloads validate by size as well as by
// content type.
var fakePDF = "%PDF-1.4\n" + strings.Repeat("x", 1200)

const searchResultsHTML = `<html><body>
<a href="/papers/Mathematics Linear Algebra Exam 2023.pdf">Mathematics Linear Algebra Exam 2023</a>
<a href="/papers/Mathematics Linear Algebra Exam 2022.pdf">Mathematics Linear Algebra Exam 2022</a>
<a href="/papers/calculus.pdf">Mathematics Calculus Exam</a>
</body></html>`

const tinyResultHTML = `<html><body>
<a href="/tiny/Mathematics Linear Algebra tiny.pdf">Mathematics Linear Algebra tiny</a>
</body></html>`

const noMagicResultHTML = `<html><body>
<a href="/nomagic/Mathematics Linear Algebra odd.pdf">Mathematics Linear Algebra odd</a>
</body></html>`

// newTestServer serves search pages and fake PDF downloads by URL path.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, searchResultsHTML)
		case r.URL.Path == "/search-tiny":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, tinyResultHTML)
		case r.URL.Path == "/search-nomagic":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, noMagicResultHTML)
		case strings.HasPrefix(r.URL.Path, "/papers/"):
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDF)
		case strings.HasPrefix(r.URL.Path, "/tiny/"):
			// Neither a PDF content type nor large enough to pass validation.
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "not a pdf")
		case strings.HasPrefix(r.URL.Path, "/nomagic/"):
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, "JUNK"+strings.Repeat("y", 1200))
		default:
			http.NotFound(w, r)
		}
	}))
}

// overrideSearchTemplates points the search templates at the test server and
// returns a cleanup function restoring the originals.
func overrideSearchTemplates(templates []string) func() {
	orig := searchURLTemplates
	searchURLTemplates = templates
	return func() { searchURLTemplates = orig }
}

func testConfig(dir string) types.ScrapeConfig {
	return types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "ag-ppr-test/0.1",
		},
		DownloadTimeout: 10 * time.Second,
		DownloadDelay:   0,
		PapersDir:       dir,
		MaxPerSource:    5,
	}
}

func TestScrapeBatchDownloads(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	restore := overrideSearchTemplates([]string{ts.URL + "/search?q={subject}+{topic}+exam"})
	defer restore()

	dir := t.TempDir()
	s := New(testConfig(dir))
	var buf bytes.Buffer

	result, err := s.ScrapeBatch("Mathematics", "Linear Algebra", &buf)
	if err != nil {
		t.Fatalf("ScrapeBatch: %v", err)
	}

	if result.Downloaded != 2 || result.Skipped != 0 || result.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 2/0/0", result.Downloaded, result.Skipped, result.Failed)
	}
	if result.Searched != 1 || result.SearchFailures != 0 {
		t.Errorf("searches = %d attempted, %d failed, want 1/0", result.Searched, result.SearchFailures)
	}
	if len(result.Files()) != 2 {
		t.Errorf("len(Files) = %d, want 2", len(result.Files()))
	}

	// PDF lands on disk under the safe filename.
	pdfPath := filepath.Join(dir, "Mathematics_Linear_Algebra_Exam_2023.pdf")
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	if string(data) != fakePDF {
		t.Errorf("PDF content mismatch (%d bytes)", len(data))
	}

	// Sidecar carries the download record.
	metaData, err := os.ReadFile(filepath.Join(dir, "Mathematics_Linear_Algebra_Exam_2023.yaml"))
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	var rec types.DownloadRecord
	if err := yaml.Unmarshal(metaData, &rec); err != nil {
		t.Fatalf("parsing sidecar: %v", err)
	}
	if rec.Title != "Mathematics Linear Algebra Exam 2023" {
		t.Errorf("rec.Title = %q", rec.Title)
	}
	if rec.Subject != "Mathematics" || rec.Topic != "Linear Algebra" {
		t.Errorf("rec subject/topic = %q/%q", rec.Subject, rec.Topic)
	}
	if rec.SizeBytes != int64(len(fakePDF)) {
		t.Errorf("rec.SizeBytes = %d, want %d", rec.SizeBytes, len(fakePDF))
	}
	if rec.DownloadedAt.IsZero() {
		t.Error("rec.DownloadedAt is zero")
	}

	out := buf.String()
	for _, want := range []string{
		"searching: " + ts.URL,
		"downloading: Mathematics_Linear_Algebra_Exam_2023.pdf",
		"downloaded: Mathematics_Linear_Algebra_Exam_2023.pdf (1.2 KB)",
		"Batch summary: 2 downloaded, 0 skipped, 0 failed (total: 2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScrapeBatchSkipsExisting(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	restore := overrideSearchTemplates([]string{ts.URL + "/search?q={subject}+{topic}+exam"})
	defer restore()

	dir := t.TempDir()
	s := New(testConfig(dir))

	var first bytes.Buffer
	if _, err := s.ScrapeBatch("Mathematics", "Linear Algebra", &first); err != nil {
		t.Fatalf("first ScrapeBatch: %v", err)
	}

	var second bytes.Buffer
	result, err := s.ScrapeBatch("Mathematics", "Linear Algebra", &second)
	if err != nil {
		t.Fatalf("second ScrapeBatch: %v", err)
	}

	if result.Downloaded != 0 || result.Skipped != 2 || result.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 0/2/0", result.Downloaded, result.Skipped, result.Failed)
	}
	// Skipped papers still appear in the batch file list.
	if len(result.Files()) != 2 {
		t.Errorf("len(Files) = %d, want 2", len(result.Files()))
	}
	// The record is round-tripped from the sidecar, not rebuilt.
	if result.Records[0].SizeBytes != int64(len(fakePDF)) {
		t.Errorf("Records[0].SizeBytes = %d, want %d from sidecar", result.Records[0].SizeBytes, len(fakePDF))
	}
	if !strings.Contains(second.String(), "skipped: Mathematics_Linear_Algebra_Exam_2023.pdf (already exists)") {
		t.Errorf("output missing skip line:\n%s", second.String())
	}
}

func TestScrapeBatchRejectsInvalidPDF(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	restore := overrideSearchTemplates([]string{ts.URL + "/search-tiny?q={subject}+{topic}"})
	defer restore()

	dir := t.TempDir()
	s := New(testConfig(dir))
	var buf bytes.Buffer

	result, err := s.ScrapeBatch("Mathematics", "Linear Algebra", &buf)
	if err != nil {
		t.Fatalf("ScrapeBatch: %v", err)
	}

	if result.Failed != 1 || result.Downloaded != 0 {
		t.Errorf("counts = %d downloaded, %d failed, want 0/1", result.Downloaded, result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if !strings.Contains(buf.String(), "not a PDF") {
		t.Errorf("output missing validation error:\n%s", buf.String())
	}

	// Nothing may be left behind, including temp files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("papers dir not empty: %v", entries)
	}
}

func TestScrapeBatchWarnsOnMissingMagic(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	restore := overrideSearchTemplates([]string{ts.URL + "/search-nomagic?q={subject}+{topic}"})
	defer restore()

	dir := t.TempDir()
	s := New(testConfig(dir))
	var buf bytes.Buffer

	result, err := s.ScrapeBatch("Mathematics", "Linear Algebra", &buf)
	if err != nil {
		t.Fatalf("ScrapeBatch: %v", err)
	}

	// Declared as a PDF so the download is accepted, but the payload is
	// flagged.
	if result.Downloaded != 1 {
		t.Errorf("Downloaded = %d, want 1", result.Downloaded)
	}
	if !strings.Contains(buf.String(), "does not start with %PDF") {
		t.Errorf("output missing magic warning:\n%s", buf.String())
	}
}

func TestScrapeBatchContinuesAfterSearchFailure(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	restore := overrideSearchTemplates([]string{
		ts.URL + "/missing?q={subject}",
		ts.URL + "/search?q={subject}+{topic}+exam",
	})
	defer restore()

	dir := t.TempDir()
	s := New(testConfig(dir))
	var buf bytes.Buffer

	result, err := s.ScrapeBatch("Mathematics", "Linear Algebra", &buf)
	if err != nil {
		t.Fatalf("ScrapeBatch: %v", err)
	}

	if result.Searched != 2 || result.SearchFailures != 1 {
		t.Errorf("searches = %d attempted, %d failed, want 2/1", result.Searched, result.SearchFailures)
	}
	if result.AllSearchesFailed() {
		t.Error("AllSearchesFailed() = true, want false")
	}
	if result.Downloaded != 2 {
		t.Errorf("Downloaded = %d, want 2 from the healthy source", result.Downloaded)
	}
}

func TestScrapeBatchAllSearchesFailed(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	restore := overrideSearchTemplates([]string{ts.URL + "/missing?q={subject}"})
	defer restore()

	dir := t.TempDir()
	s := New(testConfig(dir))
	var buf bytes.Buffer

	result, err := s.ScrapeBatch("Mathematics", "Linear Algebra", &buf)
	if err != nil {
		t.Fatalf("ScrapeBatch: %v", err)
	}

	if !result.AllSearchesFailed() {
		t.Error("AllSearchesFailed() = false, want true")
	}
	if result.Total() != 0 {
		t.Errorf("Total() = %d, want 0", result.Total())
	}
	if !strings.Contains(buf.String(), "Batch summary: 0 downloaded, 0 skipped, 0 failed (total: 0)") {
		t.Errorf("output missing summary:\n%s", buf.String())
	}
}

func TestScrapeBatchCapsPerSource(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()
	restore := overrideSearchTemplates([]string{ts.URL + "/search?q={subject}+{topic}+exam"})
	defer restore()

	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.MaxPerSource = 1
	s := New(cfg)
	var buf bytes.Buffer

	result, err := s.ScrapeBatch("Mathematics", "Linear Algebra", &buf)
	if err != nil {
		t.Fatalf("ScrapeBatch: %v", err)
	}
	if result.Downloaded != 1 {
		t.Errorf("Downloaded = %d, want 1 with MaxPerSource=1", result.Downloaded)
	}
}
