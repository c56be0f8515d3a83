// Package markdown edits markdown notes owned by the user: YAML frontmatter
// and blocks of generated content between HTML comment markers.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Note is a markdown document split into frontmatter and body.
type Note struct {
	Meta map[string]any
	Body string
}

// ParseNote splits content. A note without frontmatter has empty Meta.
func ParseNote(content string) (Note, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence) {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, fence)
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return Note{}, fmt.Errorf("frontmatter is not closed")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return Note{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return Note{Meta: meta, Body: rest[end+len("\n"+fence):]}, nil
}

func (n Note) String() (string, error) {
	var buf bytes.Buffer
	if len(n.Meta) > 0 {
		raw, err := yaml.Marshal(n.Meta)
		if err != nil {
			return "", fmt.Errorf("encode frontmatter: %w", err)
		}
		buf.WriteString(fence)
		buf.Write(raw)
		buf.WriteString(fence)
		if !strings.HasPrefix(n.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	buf.WriteString(n.Body)
	return buf.String(), nil
}

// SetBlock replaces the content between the start and end markers, or
// appends a fresh block when the markers are missing.
func (n *Note) SetBlock(start, end, content string) {
	block := start + "\n" + content + "\n" + end
	i := strings.Index(n.Body, start)
	j := strings.Index(n.Body, end)
	switch {
	case i >= 0 && j > i:
		n.Body = n.Body[:i] + block + n.Body[j+len(end):]
	case strings.TrimSpace(n.Body) == "":
		n.Body = block + "\n"
	case strings.HasSuffix(n.Body, "\n"):
		n.Body += "\n" + block + "\n"
	default:
		n.Body += "\n\n" + block + "\n"
	}
}
