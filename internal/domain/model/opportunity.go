package model

import "fmt"

// Rating bounds for opportunity inputs.
const (
	MinRating     = 1
	MaxRating     = 10
	DefaultRating = 5
)

// Draft is the opportunity entry form.
type Draft struct {
	Idea      string `json:"idea"`
	Impact    int    `json:"impact"`
	Novelty   int    `json:"novelty"`
	Alignment int    `json:"alignment"`
}

// NewDraft returns the empty form: no idea, every rating at 5.
func NewDraft() Draft {
	return Draft{Impact: DefaultRating, Novelty: DefaultRating, Alignment: DefaultRating}
}

// Normalize fills zero ratings with the default and validates the rest.
func (d Draft) Normalize() (Draft, error) {
	for _, r := range []*int{&d.Impact, &d.Novelty, &d.Alignment} {
		if *r == 0 {
			*r = DefaultRating
		}
		if *r < MinRating || *r > MaxRating {
			return d, fmt.Errorf("%w: %d out of [%d,%d]", ErrInvalidRating, *r, MinRating, MaxRating)
		}
	}
	return d, nil
}

// Opportunity is a submitted idea with its derived score.
type Opportunity struct {
	ID        string  `json:"id,omitempty"`
	Idea      string  `json:"idea"`
	Impact    int     `json:"impact"`
	Novelty   int     `json:"novelty"`
	Alignment int     `json:"alignment"`
	Score     float64 `json:"score"`
}
