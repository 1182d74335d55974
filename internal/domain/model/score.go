// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Score bounds enforced by every input surface.
const (
	MinScore     = 0
	MaxScore     = 100
	InitialScore = 50
)

// Dimension identifies one of the five brand-health axes.
type Dimension string

// The fixed dimensions, declared in display order.
const (
	Rhythm     Dimension = "R"
	Emotion    Dimension = "E"
	Activation Dimension = "A"
	Literacy   Dimension = "L"
	Magnetism  Dimension = "M"
)

// Dimensions lists every dimension in the fixed R, E, A, L, M order.
var Dimensions = [...]Dimension{Rhythm, Emotion, Activation, Literacy, Magnetism}

// Name returns the long name of the dimension.
func (d Dimension) Name() string {
	switch d {
	case Rhythm:
		return "Rhythm"
	case Emotion:
		return "Emotion"
	case Activation:
		return "Activation"
	case Literacy:
		return "Literacy"
	case Magnetism:
		return "Magnetism"
	default:
		return string(d)
	}
}

// ParseDimension accepts a dimension key, case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// ScoreSet holds the five dimension scores. The struct shape guarantees that
// exactly the five fixed keys exist.
type ScoreSet struct {
	R int `json:"R"`
	E int `json:"E"`
	A int `json:"A"`
	L int `json:"L"`
	M int `json:"M"`
}

// NewScoreSet returns the startup ScoreSet with every dimension at 50.
func NewScoreSet() ScoreSet {
	return ScoreSet{R: InitialScore, E: InitialScore, A: InitialScore, L: InitialScore, M: InitialScore}
}

// Get returns the value of d. Unknown dimensions read as zero.
func (s ScoreSet) Get(d Dimension) int {
	switch d {
	case Rhythm:
		return s.R
	case Emotion:
		return s.E
	case Activation:
		return s.A
	case Literacy:
		return s.L
	case Magnetism:
		return s.M
	default:
		return 0
	}
}

// With returns a copy of s with d set to v.
func (s ScoreSet) With(d Dimension, v int) (ScoreSet, error) {
	if v < MinScore || v > MaxScore {
		return s, fmt.Errorf("%w: %d out of [%d,%d]", ErrInvalidScore, v, MinScore, MaxScore)
	}
	switch d {
	case Rhythm:
		s.R = v
	case Emotion:
		s.E = v
	case Activation:
		s.A = v
	case Literacy:
		s.L = v
	case Magnetism:
		s.M = v
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
	return s, nil
}

// ParseScore coerces slider text into a score. Blank, non-integer and
// out-of-range input is rejected rather than turned into a silent zero.
func ParseScore(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidScore)
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidScore, raw)
	}
	if v < MinScore || v > MaxScore {
		return 0, fmt.Errorf("%w: %d out of [%d,%d]", ErrInvalidScore, v, MinScore, MaxScore)
	}
	return v, nil
}

// ChartPoint is one spoke of the radar chart.
type ChartPoint struct {
	Dimension Dimension `json:"dimension"`
	Score     int       `json:"score"`
}

// Chart derives the radar chart data from s in fixed dimension order.
func (s ScoreSet) Chart() []ChartPoint {
	points := make([]ChartPoint, 0, len(Dimensions))
	for _, d := range Dimensions {
		points = append(points, ChartPoint{Dimension: d, Score: s.Get(d)})
	}
	return points
}
