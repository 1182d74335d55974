package history

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/realm/internal/domain/model"
)

// DimensionStats describes one dimension across the snapshot log.
type DimensionStats struct {
	Dimension model.Dimension `json:"dimension"`
	Mean      float64         `json:"mean"`
	StdDev    float64         `json:"std_dev"`
	Min       float64         `json:"min"`
	Max       float64         `json:"max"`
	// Delta is the latest value minus the first one.
	Delta float64 `json:"delta"`
}

// Summary aggregates the snapshot log per dimension.
type Summary struct {
	Count      int              `json:"count"`
	First      string           `json:"first,omitempty"`
	Latest     string           `json:"latest,omitempty"`
	Dimensions []DimensionStats `json:"dimensions"`
}

// Summarize computes per-dimension statistics in fixed dimension order. An
// empty log yields a zero summary with no dimensions.
func Summarize(snaps []model.Snapshot) Summary {
	sum := Summary{Count: len(snaps), Dimensions: []DimensionStats{}}
	if len(snaps) == 0 {
		return sum
	}
	sum.First = snaps[0].Date
	sum.Latest = snaps[len(snaps)-1].Date

	values := make([]float64, len(snaps))
	for _, d := range model.Dimensions {
		for i, s := range snaps {
			values[i] = float64(s.Scores.Get(d))
		}
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		sum.Dimensions = append(sum.Dimensions, DimensionStats{
			Dimension: d,
			Mean:      mean,
			StdDev:    std,
			Min:       floats.Min(values),
			Max:       floats.Max(values),
			Delta:     values[len(values)-1] - values[0],
		})
	}
	return sum
}
