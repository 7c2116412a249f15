// Package answer splits flashcard answers into renderable lines and checklist items.
package answer

import "strings"

// ChecklistPrefix marks a checklist line once the line is trimmed.
const ChecklistPrefix = "* "

// LineKind tells text lines and checklist lines apart.
type LineKind int

const (
	LineText LineKind = iota
	LineChecklist
)

// Line is one line of a parsed answer.
type Line struct {
	Kind LineKind
	// Text is the untouched source line for LineText and the
	// display text (prefix removed, trimmed) for LineChecklist.
	Text string
	// ChecklistIndex is the originalIndex of a checklist line; -1 for text.
	ChecklistIndex int
}

// IsChecklist reports whether l is a checklist line.
func (l Line) IsChecklist() bool {
	return l.Kind == LineChecklist
}

// ChecklistItem is a checkable line of an answer. Treat it as a value.
type ChecklistItem struct {
	OriginalIndex int    `json:"original_index"`
	Text          string `json:"text"`
	Checked       bool   `json:"checked"`
}

// Parsed holds both views of an answer: Lines in source order for
// rendering, Checklist flat for state management. Checklist[i].OriginalIndex == i
// straight out of Parse.
type Parsed struct {
	Lines     []Line
	Checklist []ChecklistItem
}

// Parse splits text on "\n" and classifies each line.
func Parse(text string) Parsed {
	raw := strings.Split(text, "\n")
	p := Parsed{
		Lines:     make([]Line, 0, len(raw)),
		Checklist: []ChecklistItem{},
	}

	next := 0
	for _, line := range raw {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, ChecklistPrefix) {
			p.Lines = append(p.Lines, Line{Kind: LineText, Text: line, ChecklistIndex: -1})
			continue
		}

		item := strings.TrimSpace(strings.TrimPrefix(trimmed, ChecklistPrefix))
		p.Lines = append(p.Lines, Line{Kind: LineChecklist, Text: item, ChecklistIndex: next})
		p.Checklist = append(p.Checklist, ChecklistItem{OriginalIndex: next, Text: item})
		next++
	}

	return p
}
