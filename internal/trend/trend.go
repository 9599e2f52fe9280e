// Package trend computes multi-period growth rates and CAGR.
package trend

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/finsight-cli/internal/model"
)

// Compute derives adjacent-pair growth and full-span CAGR from a
// chronologically ordered (oldest first) sequence of period records.
// Unlike the metrics engine, a zero prior value here reports 0% growth
// flagged undefined rather than guarding the denominator to 1: a raw
// division would produce Inf, and a guard-to-1 growth figure would be
// meaningless.
func Compute(periods []model.PeriodRecord) (*model.TrendResult, error) {
	if len(periods) < 2 {
		return nil, eris.Errorf("trend: need at least 2 periods, got %d", len(periods))
	}

	res := &model.TrendResult{
		Periods: len(periods),
		Pairs:   make(map[string]model.PairGrowth, len(periods)-1),
	}

	for i := 1; i < len(periods); i++ {
		prev, curr := periods[i-1], periods[i]
		key := fmt.Sprintf("%s-%s", prev.Period, curr.Period)
		res.Pairs[key] = model.PairGrowth{
			Revenue:          growth(prev.Data.Revenue, curr.Data.Revenue),
			TotalAssets:      growth(prev.Data.TotalAssets, curr.Data.TotalAssets),
			TotalEquity:      growth(prev.Data.TotalEquity, curr.Data.TotalEquity),
			TotalLiabilities: growth(prev.Data.TotalLiabilities, curr.Data.TotalLiabilities),
		}
	}

	first, last := periods[0], periods[len(periods)-1]
	span := len(periods) - 1
	res.CAGR = model.CAGRBundle{
		Revenue:          cagr(first.Data.Revenue, last.Data.Revenue, span),
		TotalAssets:      cagr(first.Data.TotalAssets, last.Data.TotalAssets, span),
		TotalEquity:      cagr(first.Data.TotalEquity, last.Data.TotalEquity, span),
		TotalLiabilities: cagr(first.Data.TotalLiabilities, last.Data.TotalLiabilities, span),
	}

	return res, nil
}

// growth is percentage growth from previous to current. A zero previous
// value yields {0, false}.
func growth(previous, current float64) model.GrowthRate {
	if previous == 0 {
		return model.GrowthRate{Percent: 0, Defined: false}
	}
	return model.GrowthRate{
		Percent: (current - previous) / previous * 100,
		Defined: true,
	}
}

// cagr is the compound annual growth rate across span periods.
// Undefined when the first value is <= 0.
func cagr(first, last float64, span int) model.CAGREntry {
	if first <= 0 || span <= 0 {
		return model.CAGREntry{Rate: 0, Defined: false}
	}
	return model.CAGREntry{
		Rate:    math.Pow(last/first, 1/float64(span)) - 1,
		Defined: true,
	}
}
