package answer

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// ApplyPersistedState overlays saved check marks onto items and sorts the result.
// Items without a saved entry keep their current state.
func ApplyPersistedState(items []ChecklistItem, saved map[int]bool) []ChecklistItem {
	out := make([]ChecklistItem, len(items))
	for i, item := range items {
		if checked, ok := saved[item.OriginalIndex]; ok {
			item.Checked = checked
		}
		out[i] = item
	}
	SortChecklist(out)
	return out
}

// Toggle returns a copy of items with the item at originalIndex set to checked,
// re-sorted. ok is false, and items are returned unchanged, if no item matches.
func Toggle(items []ChecklistItem, originalIndex int, checked bool) (out []ChecklistItem, ok bool) {
	out = make([]ChecklistItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].OriginalIndex == originalIndex {
			out[i].Checked = checked
			ok = true
			break
		}
	}
	if !ok {
		return items, false
	}
	SortChecklist(out)
	return out, true
}

// SortChecklist moves checked items after unchecked ones, keeping relative order otherwise.
func SortChecklist(items []ChecklistItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return !items[i].Checked && items[j].Checked
	})
}

// CompletionRatio is checked/total, or 0 for an empty checklist.
func CompletionRatio(items []ChecklistItem) float64 {
	if len(items) == 0 {
		return 0
	}
	return float64(CheckedCount(items)) / float64(len(items))
}

// CheckedCount counts checked items.
func CheckedCount(items []ChecklistItem) int {
	n := 0
	for _, item := range items {
		if item.Checked {
			n++
		}
	}
	return n
}

// IsRated reports whether at least one item is checked.
// An empty checklist is never rated.
func IsRated(items []ChecklistItem) bool {
	return CheckedCount(items) > 0
}

// StateMap is the persisted form of a checklist: originalIndex -> checked.
func StateMap(items []ChecklistItem) map[int]bool {
	m := make(map[int]bool, len(items))
	for _, item := range items {
		m[item.OriginalIndex] = item.Checked
	}
	return m
}

// EncodeState serializes a state map as a JSON object keyed by index.
func EncodeState(state map[int]bool) ([]byte, error) {
	obj := make(map[string]bool, len(state))
	for k, v := range state {
		obj[strconv.Itoa(k)] = v
	}
	return json.Marshal(obj)
}

// DecodeState parses a blob written by EncodeState. Empty input yields an empty map.
func DecodeState(data []byte) (map[int]bool, error) {
	state := map[int]bool{}
	if len(data) == 0 {
		return state, nil
	}
	var obj map[string]bool
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.Wrap(err, "decode checklist state")
	}
	for k, v := range obj {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.Wrapf(err, "checklist state key %q", k)
		}
		state[idx] = v
	}
	return state, nil
}
