package model

// completionRatio is the unclamped fraction of the project's target that
// has been reached. Zero or absent targets yield 0.
func completionRatio(p Project) float64 {
	switch p.Type {
	case ProjectTypeSetsReps:
		if p.Sets <= 0 {
			return 0
		}
		return float64(p.TotalCompletedReps()) / float64(p.Sets)
	case ProjectTypeTotalCount:
		if p.TargetCount <= 0 {
			return 0
		}
		return float64(p.CurrentCount) / float64(p.TargetCount)
	default:
		return 0
	}
}

// PercentComplete derives the project's completion percentage in [0,100].
// Over-completion is allowed in storage and clamped here, at derivation
// time only.
func PercentComplete(p Project) float64 {
	pct := completionRatio(p) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// IsComplete reports whether the unclamped ratio has reached the target.
func IsComplete(p Project) bool {
	return completionRatio(p) >= 1
}
