// Package scoring computes opportunity scores and their display ranking.
package scoring

import (
	"slices"

	"github.com/okian/realm/internal/domain/model"
)

// Opportunity score weights.
const (
	ImpactWeight    = 0.5
	NoveltyWeight   = 0.3
	AlignmentWeight = 0.2
)

// Score applies the fixed weighted formula to the three ratings.
func Score(impact, novelty, alignment int) float64 {
	return float64(impact)*ImpactWeight + float64(novelty)*NoveltyWeight + float64(alignment)*AlignmentWeight
}

// NewOpportunity validates a draft and derives its score. Zero ratings take
// the default of 5.
func NewOpportunity(id string, d model.Draft) (model.Opportunity, error) {
	d, err := d.Normalize()
	if err != nil {
		return model.Opportunity{}, err
	}
	return model.Opportunity{
		ID:        id,
		Idea:      d.Idea,
		Impact:    d.Impact,
		Novelty:   d.Novelty,
		Alignment: d.Alignment,
		Score:     Score(d.Impact, d.Novelty, d.Alignment),
	}, nil
}

// Ranked returns a copy of opps ordered by score descending. Ties keep their
// insertion order and opps itself is never reordered.
func Ranked(opps []model.Opportunity) []model.Opportunity {
	out := slices.Clone(opps)
	slices.SortStableFunc(out, func(a, b model.Opportunity) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return out
}
