package markdown

import (
	"strings"
	"testing"
)

func TestSetBlockAppendsThenReplaces(t *testing.T) {
	t.Parallel()
	n, err := ParseNote("# Sadhana\n\nmorning notes\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	n.SetBlock("<!-- a -->", "<!-- b -->", "first")
	n.SetBlock("<!-- a -->", "<!-- b -->", "second")
	want := "# Sadhana\n\nmorning notes\n\n<!-- a -->\nsecond\n<!-- b -->\n"
	if n.Body != want {
		t.Fatalf("unexpected body:\n%q\nwant\n%q", n.Body, want)
	}
}

func TestFrontmatterRoundTrip(t *testing.T) {
	t.Parallel()
	n, err := ParseNote("---\ntitle: Japa\n---\n\nbody\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n.Meta["title"] != "Japa" || n.Body != "\nbody\n" {
		t.Fatalf("unexpected note: %+v", n)
	}
	n.Meta["rounds"] = 16
	out, err := n.String()
	if err != nil {
		t.Fatalf("string: %v", err)
	}
	if !strings.HasPrefix(out, "---\nrounds: 16\ntitle: Japa\n---\n\nbody\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestUnclosedFrontmatter(t *testing.T) {
	t.Parallel()
	if _, err := ParseNote("---\ntitle: x\nbody"); err == nil {
		t.Fatalf("expected error for unclosed frontmatter")
	}
}

func TestEmptyNoteGetsBlockOnly(t *testing.T) {
	t.Parallel()
	var n Note
	n.SetBlock("<s>", "<e>", "x")
	out, err := n.String()
	if err != nil || out != "<s>\nx\n<e>\n" {
		t.Fatalf("unexpected output %q %v", out, err)
	}
}
