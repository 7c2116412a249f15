package algorithm

// QualityFromRatio maps a checklist completion ratio onto an SM-2 quality.
// Only the ratio matters, not which items were checked.
func QualityFromRatio(ratio float64) int {
	switch {
	case ratio >= 1.0:
		return 5
	case ratio >= 0.8:
		return 4
	case ratio >= 0.5:
		return 3
	case ratio >= 0.2:
		return 2
	case ratio > 0:
		return 1
	default:
		return 0
	}
}
