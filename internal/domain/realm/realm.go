// Package realm holds the widget state and the reducer that advances it.
//
// Reduce is pure: it never mutates the input state, touches storage or reads
// the clock. Callers supply dates and ids through the actions.
package realm

import (
	"fmt"
	"slices"

	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/internal/domain/recommend"
	"github.com/okian/realm/internal/domain/scoring"
)

// State is everything the presentation layer renders.
type State struct {
	Scores        model.ScoreSet
	History       []model.Snapshot
	Opportunities []model.Opportunity
	Draft         model.Draft
}

// New returns the startup state around an already-loaded history.
func New(history []model.Snapshot) State {
	return State{
		Scores:        model.NewScoreSet(),
		History:       slices.Clip(slices.Clone(history)),
		Opportunities: []model.Opportunity{},
		Draft:         model.NewDraft(),
	}
}

// Recommendations derives the advisory sentences for the current scores.
func (s State) Recommendations() []string { return recommend.For(s.Scores) }

// Chart derives the radar chart data for the current scores.
func (s State) Chart() []model.ChartPoint { return s.Scores.Chart() }

// Ranked returns the opportunities in display order without reordering State.
func (s State) Ranked() []model.Opportunity { return scoring.Ranked(s.Opportunities) }

// Kind names an action for logging and metrics.
type Kind string

// Action kinds.
const (
	KindSetScore       Kind = "set_score"
	KindSaveSnapshot   Kind = "save_snapshot"
	KindAddOpportunity Kind = "add_opportunity"
	KindEditDraft      Kind = "edit_draft"
)

// Action is a user command consumed by Reduce.
type Action interface {
	Kind() Kind
}

// SetScore replaces one dimension's value.
type SetScore struct {
	Dimension model.Dimension
	Value     int
}

// SaveSnapshot appends the current scores under Date.
type SaveSnapshot struct {
	Date string
}

// AddOpportunity scores Draft, appends it and resets the form.
type AddOpportunity struct {
	ID    string
	Draft model.Draft
}

// EditDraft replaces the form contents without submitting them.
type EditDraft struct {
	Draft model.Draft
}

func (SetScore) Kind() Kind       { return KindSetScore }
func (SaveSnapshot) Kind() Kind   { return KindSaveSnapshot }
func (AddOpportunity) Kind() Kind { return KindAddOpportunity }
func (EditDraft) Kind() Kind      { return KindEditDraft }

// Reduce applies a to s. On error the returned state equals s.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case SetScore:
		scores, err := s.Scores.With(a.Dimension, a.Value)
		if err != nil {
			return s, err
		}
		s.Scores = scores
		return s, nil

	case SaveSnapshot:
		// Clip forces append to copy, leaving the caller's backing array untouched.
		s.History = append(slices.Clip(s.History), model.Snapshot{Date: a.Date, Scores: s.Scores})
		return s, nil

	case AddOpportunity:
		opp, err := scoring.NewOpportunity(a.ID, a.Draft)
		if err != nil {
			return s, err
		}
		s.Opportunities = append(slices.Clip(s.Opportunities), opp)
		s.Draft = model.NewDraft()
		return s, nil

	case EditDraft:
		s.Draft = a.Draft
		return s, nil

	case nil:
		return s, ErrNilAction
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}
