package pdftext

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractTextMissingFile(t *testing.T) {
	_, err := New().ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestExtractTextNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New().ExtractText(path)
	if err == nil {
		t.Fatal("expected error for non-PDF content, got nil")
	}
}
