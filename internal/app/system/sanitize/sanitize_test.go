package sanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/sanitize"
)

func TestContent_PlainText(t *testing.T) {
	if got := sanitize.Content("Hello, World!"); got != "Hello, World!" {
		t.Errorf("plain text changed: %q", got)
	}
}

func TestContent_RemovesScript(t *testing.T) {
	got := sanitize.Content("<p>Hello</p><script>alert('xss')</script>")
	if strings.Contains(got, "script") {
		t.Errorf("script not removed: %q", got)
	}
	if !strings.Contains(got, "Hello") {
		t.Errorf("text lost: %q", got)
	}
}

func TestContent_KeepsFormatting(t *testing.T) {
	got := sanitize.Content("<strong>important</strong>")
	if !strings.Contains(got, "<strong>") {
		t.Errorf("basic formatting stripped: %q", got)
	}
}

func TestStrict_StripsAllMarkup(t *testing.T) {
	got := sanitize.Strict(`<b>Title</b> <a href="x">link</a>`)
	if strings.ContainsAny(got, "<>") {
		t.Errorf("markup survived: %q", got)
	}
}

func TestContent_TrimsWhitespace(t *testing.T) {
	if got := sanitize.Content("  hi  "); got != "hi" {
		t.Errorf("got %q, want %q", got, "hi")
	}
}
