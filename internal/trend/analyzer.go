// Package trend buckets transactions by ISO week and classifies the
// week-over-week direction of revenue and expenses.
package trend

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// Direction labels a revenue or expense trend.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// minWeeks is the minimum number of distinct ISO weeks needed for a trend
// signal; below it both directions default to stable.
const minWeeks = 4

var (
	ratioUp   = decimal.NewFromFloat(1.1)
	ratioDown = decimal.NewFromFloat(0.9)
)

// WeekTotals holds one ISO week's credit and debit sums. Debits are
// absolute values of the negative amounts.
type WeekTotals struct {
	Week    int             `json:"week"`
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
}

// Result is the weekly breakdown plus trend labels.
type Result struct {
	Weekly   []WeekTotals `json:"weekly_data"`
	Revenue  Direction    `json:"revenue"`
	Expenses Direction    `json:"expenses"`
}

// Analyze assigns every transaction to its ISO calendar week, then splits
// the ordered weeks at the floor midpoint and compares half sums with
// strict x1.1 / x0.9 thresholds, independently for credits and debits.
func Analyze(txns []model.Transaction) Result {
	totals := make(map[int]*WeekTotals)
	for _, txn := range txns {
		_, week := txn.Date.ISOWeek()
		wt, ok := totals[week]
		if !ok {
			wt = &WeekTotals{Week: week, Credits: decimal.Zero, Debits: decimal.Zero}
			totals[week] = wt
		}
		if txn.Amount.IsPositive() {
			wt.Credits = wt.Credits.Add(txn.Amount)
		} else {
			wt.Debits = wt.Debits.Add(txn.Amount.Abs())
		}
	}

	weeks := make([]int, 0, len(totals))
	for w := range totals {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	weekly := make([]WeekTotals, 0, len(weeks))
	for _, w := range weeks {
		weekly = append(weekly, *totals[w])
	}

	result := Result{Weekly: weekly, Revenue: Stable, Expenses: Stable}
	if len(weeks) < minWeeks {
		return result
	}

	mid := len(weekly) / 2
	firstCredits, firstDebits := halfSums(weekly[:mid])
	secondCredits, secondDebits := halfSums(weekly[mid:])

	result.Revenue = classify(firstCredits, secondCredits)
	result.Expenses = classify(firstDebits, secondDebits)
	return result
}

func halfSums(weekly []WeekTotals) (credits, debits decimal.Decimal) {
	credits, debits = decimal.Zero, decimal.Zero
	for _, wt := range weekly {
		credits = credits.Add(wt.Credits)
		debits = debits.Add(wt.Debits)
	}
	return credits, debits
}

// classify requires strict inequality: a second half at exactly 1.1x or
// 0.9x the first is still stable.
func classify(first, second decimal.Decimal) Direction {
	switch {
	case second.GreaterThan(first.Mul(ratioUp)):
		return Increasing
	case second.LessThan(first.Mul(ratioDown)):
		return Decreasing
	default:
		return Stable
	}
}
