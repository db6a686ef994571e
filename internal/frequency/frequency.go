// Package frequency classifies a set of dated events into a recurrence
// bucket from the average gap between consecutive dates.
package frequency

import (
	"sort"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// Bucket thresholds are inclusive upper bounds on the average day gap.
const (
	maxDailyGap       = 2
	maxWeeklyGap      = 8
	maxSemiMonthlyGap = 17
	maxMonthlyGap     = 35
	maxQuarterlyGap   = 100
)

// Detect maps the dates of one cluster to a frequency label. Fewer than two
// dates carry no gap signal and classify as uncommon.
func Detect(dates []model.Date) model.Frequency {
	if len(dates) < 2 {
		return model.FreqUncommon
	}

	sorted := make([]model.Date, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j].Time)
	})

	totalDays := 0
	for i := 1; i < len(sorted); i++ {
		totalDays += sorted[i-1].DaysUntil(sorted[i])
	}
	avgGap := float64(totalDays) / float64(len(sorted)-1)

	switch {
	case avgGap <= maxDailyGap:
		return model.FreqDaily
	case avgGap <= maxWeeklyGap:
		return model.FreqWeekly
	case avgGap <= maxSemiMonthlyGap:
		return model.FreqSemiMonthly
	case avgGap <= maxMonthlyGap:
		return model.FreqMonthly
	case avgGap <= maxQuarterlyGap:
		return model.FreqQuarterly
	default:
		return model.FreqUncommon
	}
}
