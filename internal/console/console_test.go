package console

import "testing"

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		msg  string
		want string
	}{
		{"success", Success, "done", "\033[92m✓ done\033[0m"},
		{"error", Error, "failed", "\033[91m✗ failed\033[0m"},
		{"info", Info, "note", "\033[94mℹ note\033[0m"},
		{"progress", Progress, "working", "\033[96m⋯ working\033[0m"},
		{"warning", Warning, "careful", "\033[93m⚠ careful\033[0m"},
		{"unknown kind passes through", Kind(99), "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Line(tt.kind, tt.msg); got != tt.want {
				t.Errorf("Line(%d, %q) = %q, want %q", tt.kind, tt.msg, got, tt.want)
			}
		})
	}
}

func TestLinef(t *testing.T) {
	got := Linef(Success, "downloaded %d papers", 3)
	want := "\033[92m✓ downloaded 3 papers\033[0m"
	if got != want {
		t.Errorf("Linef = %q, want %q", got, want)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{"bytes", 512, "512.0 B"},
		{"kilobytes", 2048, "2.0 KB"},
		{"megabytes", 1536 * 1024, "1.5 MB"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3.0 GB"},
		{"zero", 0, "0.0 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSize(tt.n); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}
