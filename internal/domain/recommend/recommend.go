// Package recommend turns low dimension scores into canned advice.
package recommend

import (
	"iter"
	"slices"

	"github.com/okian/realm/internal/domain/model"
)

// Threshold is the cutoff below which a dimension earns a recommendation.
const Threshold = 40

var advice = map[model.Dimension]string{
	model.Rhythm:     "Increase brand rhythm: revisit strategy more often, scan cultural signals.",
	model.Emotion:    "Deepen emotional connection: use authentic storytelling.",
	model.Activation: "Experiment more: pilot bold creative activations.",
	model.Literacy:   "Improve literacy: simplify messages, make brand easier to grasp.",
	model.Magnetism:  "Strengthen magnetism: sharpen positioning and community pull.",
}

// Advice returns the fixed sentence for d.
func Advice(d model.Dimension) string {
	return advice[d]
}

// All yields one advisory per dimension scoring below Threshold, in the fixed
// dimension order.
func All(scores model.ScoreSet) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, d := range model.Dimensions {
			if scores.Get(d) >= Threshold {
				continue
			}
			if !yield(advice[d]) {
				return
			}
		}
	}
}

// For materializes All. The result is never nil.
func For(scores model.ScoreSet) []string {
	out := slices.Collect(All(scores))
	if out == nil {
		return []string{}
	}
	return out
}
