package sanitize_test

import (
	"testing"

	"github.com/bookworks/middleoffice/internal/app/system/sanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text passes through", "needs a second pass on chapter 3", "needs a second pass on chapter 3"},
		{"tags are stripped", "<b>rejected</b>, see notes", "rejected, see notes"},
		{"script is removed entirely", `fine<script>alert("x")</script>`, "fine"},
		{"whitespace trimmed", "  ok  ", "ok"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize.Text(tt.in); got != tt.want {
				t.Errorf("Text(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
