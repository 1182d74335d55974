// Package types contains read shapes shared by the API and the terminal UI.
package types

import (
	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/internal/domain/realm"
)

// StateView is the rendered projection of realm.State.
type StateView struct {
	Scores          model.ScoreSet      `json:"scores"`
	Chart           []model.ChartPoint  `json:"chart"`
	History         []model.Snapshot    `json:"history"`
	Opportunities   []model.Opportunity `json:"opportunities"`
	Recommendations []string            `json:"recommendations"`
	Draft           model.Draft         `json:"draft"`
}

// View projects s for rendering. Opportunities come back ranked and every
// list is a copy.
func View(s realm.State) StateView {
	hist := append([]model.Snapshot{}, s.History...)
	return StateView{
		Scores:          s.Scores,
		Chart:           s.Chart(),
		History:         hist,
		Opportunities:   s.Ranked(),
		Recommendations: s.Recommendations(),
		Draft:           s.Draft,
	}
}
