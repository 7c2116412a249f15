package answer

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RenderOptions are presentation settings. They never affect scheduling.
type RenderOptions struct {
	// HideUnmarkedText hides text lines unless a checklist line follows them.
	HideUnmarkedText bool
}

// VisibleLines applies opts to lines and returns the ones to display.
func VisibleLines(lines []Line, opts RenderOptions) []Line {
	if !opts.HideUnmarkedText {
		return lines
	}
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		if l.IsChecklist() || (i+1 < len(lines) && lines[i+1].IsChecklist()) {
			out = append(out, l)
		}
	}
	return out
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	htmlPolicy = bluemonday.UGCPolicy().
			AllowElements("img").
			AllowAttrs("src", "alt").OnElements("img").
			AllowElements("input").
			AllowAttrs("type", "checked", "disabled").OnElements("input")
)

// RenderHTML renders the answer's markdown to sanitized HTML. Checklist lines
// become disabled task-list checkboxes reflecting items' checked state.
func RenderHTML(lines []Line, items []ChecklistItem) (string, error) {
	checked := StateMap(items)

	var src strings.Builder
	for _, l := range lines {
		if l.IsChecklist() {
			mark := " "
			if checked[l.ChecklistIndex] {
				mark = "x"
			}
			src.WriteString("- [" + mark + "] " + l.Text + "\n")
			continue
		}
		src.WriteString(l.Text + "\n")
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src.String()), &buf); err != nil {
		return "", errors.Wrap(err, "render answer markdown")
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}
