package report

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func testSummary() *Summary {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Summary{
		GalleryBaseURL:  "https://prnt.sc",
		StartedAt:       started,
		FinishedAt:      started.Add(90 * time.Second),
		ImagesProcessed: 12,
		CountsByAuthor:  map[string]int{"KEYWORD": 2, "EXIF": 1},
		Findings: []Finding{
			{ImageID: "ab12cd", Author: "KEYWORD", Details: "Detected keyword: \"password\""},
			{ImageID: "ef34gh", Author: "EXIF", Details: "GPSLatitude: 40.7128 found in EXIF metadata"},
		},
	}
}

func TestMarkdownWriterIncludesHeaderFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)
	if _, err := w.Write(testSummary()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Scavenger Report", "https://prnt.sc", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestMarkdownWriterListsFindings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)
	if _, err := w.Write(testSummary()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ab12cd", "ef34gh", "KEYWORD", "EXIF"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestMarkdownWriterEmptySummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)
	empty := &Summary{GalleryBaseURL: "https://prnt.sc", CountsByAuthor: map[string]int{}}
	if _, err := w.Write(empty); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "No flagged images.") {
		t.Errorf("expected empty-state message, got:\n%s", out)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "shorter than max is unchanged", input: "abc", maxLen: 10, want: "abc"},
		{name: "exact length is unchanged", input: "abcde", maxLen: 5, want: "abcde"},
		{name: "longer is truncated with ellipsis", input: "abcdefghij", maxLen: 5, want: "ab..."},
		{name: "tiny max returns a hard cut", input: "abcdefghij", maxLen: 2, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
