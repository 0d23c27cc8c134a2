package core

import "slices"

// Score thresholds for the urgency buckets
const (
	UrgentThreshold    = 7
	ImportantThreshold = 4
)

// UrgencyGroups is a read-only partition of ordered summaries
type UrgencyGroups struct {
	Urgent    []EmailSummary
	Important []EmailSummary
	General   []EmailSummary
}

// OrderByImportance returns a new slice sorted by importance score, highest
// first. Equal scores keep their input order.
func OrderByImportance(summaries []EmailSummary) []EmailSummary {
	ordered := slices.Clone(summaries)
	slices.SortStableFunc(ordered, func(a, b EmailSummary) int {
		return b.ImportanceScore - a.ImportanceScore
	})
	return ordered
}

// CategoryForScore maps an importance score onto its band
func CategoryForScore(score int) Category {
	switch {
	case score >= UrgentThreshold:
		return CategoryUrgent
	case score >= ImportantThreshold:
		return CategoryImportant
	default:
		return CategoryGeneral
	}
}

// GroupByUrgency partitions summaries into score buckets without reordering
func GroupByUrgency(ordered []EmailSummary) UrgencyGroups {
	var g UrgencyGroups
	for _, s := range ordered {
		switch CategoryForScore(s.ImportanceScore) {
		case CategoryUrgent:
			g.Urgent = append(g.Urgent, s)
		case CategoryImportant:
			g.Important = append(g.Important, s)
		default:
			g.General = append(g.General, s)
		}
	}
	return g
}
