package render

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{"basic formatting", "some **bold** text", "<strong>bold</strong>", ""},
		{"links kept", "[site](https://example.com)", `href="https://example.com"`, ""},
		{"script stripped", `hello <script>alert("x")</script>`, "hello", "<script>"},
		{"event handler stripped", `<a href="/x" onclick="steal()">x</a>`, "", "onclick"},
		{"gfm table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Markdown(tt.input))
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("Markdown(%q) = %q, missing %q", tt.input, got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("Markdown(%q) = %q, must not contain %q", tt.input, got, tt.excludes)
			}
		})
	}
}
