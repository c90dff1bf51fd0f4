package dashboard

import (
	"math"
	"sort"

	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// whiskerSpan is the Tukey fence multiplier applied to the interquartile range.
const whiskerSpan = 1.5

// boxGroup summarizes one group of values. values keeps its row order in the result.
func boxGroup(key string, values []float64) model.BoxGroup {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	b := model.BoxGroup{
		Key:      key,
		Values:   values,
		Min:      sorted[0],
		Q1:       quantile(sorted, 0.25),
		Median:   quantile(sorted, 0.5),
		Q3:       quantile(sorted, 0.75),
		Max:      sorted[len(sorted)-1],
		Outliers: []float64{},
	}

	iqr := b.Q3 - b.Q1
	lowFence := b.Q1 - whiskerSpan*iqr
	highFence := b.Q3 + whiskerSpan*iqr
	b.LowerWhisker = b.Max
	b.UpperWhisker = b.Min
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, v)
		b.UpperWhisker = math.Max(b.UpperWhisker, v)
	}
	return b
}

// quantile interpolates linearly between the closest ranks of a sorted sample,
// placing p at position p*(n-1).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
