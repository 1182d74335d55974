package cli

import (
	"fmt"
	"strings"

	"github.com/okian/realm/internal/domain/model"
)

// parseAssignments applies DIM=VALUE arguments on top of the initial scores.
func parseAssignments(args []string) (model.ScoreSet, error) {
	scores := model.NewScoreSet()
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return scores, fmt.Errorf("%q: expected DIM=VALUE, e.g. R=30", arg)
		}
		d, err := model.ParseDimension(key)
		if err != nil {
			return scores, err
		}
		v, err := model.ParseScore(raw)
		if err != nil {
			return scores, fmt.Errorf("%s: %w", d, err)
		}
		if scores, err = scores.With(d, v); err != nil {
			return scores, err
		}
	}
	return scores, nil
}
