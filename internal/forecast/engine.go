// Package forecast simulates a day-by-day cash balance over a calendar
// horizon from the confirmed recurring groups.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// DefaultHorizonDays is the horizon used when the caller supplies none.
const DefaultHorizonDays = 30

// ErrNotReady signals that no confirmed groups exist yet. It is a
// recoverable state, not a hard failure: the caller should finish
// categorization and confirm groups first.
var ErrNotReady = errors.New("no confirmed transaction groups; complete categorization first")

// Entry is one group firing on a simulated day.
type Entry struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
}

// Row is one simulated day.
type Row struct {
	Date         model.Date      `json:"date"`
	DayName      string          `json:"day_name"`
	Balance      decimal.Decimal `json:"balance"`
	Credits      decimal.Decimal `json:"credits"`
	Debits       decimal.Decimal `json:"debits"`
	Transactions []Entry         `json:"transactions"`
}

// Point is a balance extreme across the horizon.
type Point struct {
	Balance decimal.Decimal `json:"balance"`
	Date    model.Date      `json:"date"`
}

// Summary reports the starting balance and the horizon's extremes.
type Summary struct {
	StartingBalance decimal.Decimal `json:"current_balance"`
	LowPoint        Point           `json:"low_point"`
	HighPoint       Point           `json:"high_point"`
}

// Result is the full forecast output.
type Result struct {
	Rows    []Row   `json:"forecast"`
	Summary Summary `json:"summary"`
}

// Run simulates the horizon starting at start, carrying a running balance
// across days. The unrounded running figure is carried internally; each
// row reports it rounded to two decimal places so repeated runs over the
// same inputs are identical with no cumulative drift.
func Run(groups []model.Group, startingBalance decimal.Decimal, days int, start model.Date) (*Result, error) {
	if days < 1 {
		return nil, fmt.Errorf("forecast horizon must be at least 1 day, got %d", days)
	}

	var confirmed []model.Group
	for _, g := range groups {
		if g.Confirmed {
			confirmed = append(confirmed, g)
		}
	}
	if len(confirmed) == 0 {
		return nil, ErrNotReady
	}

	rows := make([]Row, 0, days)
	running := startingBalance

	for offset := 0; offset < days; offset++ {
		day := start.AddDays(offset)

		credits, debits := decimal.Zero, decimal.Zero
		var entries []Entry
		for _, g := range confirmed {
			if !fires(g.Frequency, day) {
				continue
			}
			if g.AvgAmount.IsPositive() {
				credits = credits.Add(g.AvgAmount)
			} else {
				debits = debits.Add(g.AvgAmount.Abs())
			}
			entries = append(entries, Entry{
				Name:   g.Name,
				Amount: g.AvgAmount,
				Type:   model.TransactionType(g.AvgAmount),
			})
		}

		running = running.Add(credits).Sub(debits)
		rows = append(rows, Row{
			Date:         day,
			DayName:      day.Weekday().String(),
			Balance:      running.Round(2),
			Credits:      credits.Round(2),
			Debits:       debits.Round(2),
			Transactions: entries,
		})
	}

	return &Result{
		Rows: rows,
		Summary: Summary{
			StartingBalance: startingBalance,
			LowPoint:        lowPoint(rows),
			HighPoint:       highPoint(rows),
		},
	}, nil
}

// fires applies the deterministic calendar rule for a frequency. Uncommon
// and varies never fire automatically.
func fires(freq model.Frequency, day model.Date) bool {
	switch freq {
	case model.FreqDaily:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case model.FreqWeekly:
		return day.Weekday() == time.Monday
	case model.FreqSemiMonthly:
		return day.Day() == 1 || day.Day() == 15
	case model.FreqMonthly:
		return day.Day() == 1
	case model.FreqQuarterly:
		if day.Day() != 1 {
			return false
		}
		switch day.Month() {
		case time.January, time.April, time.July, time.October:
			return true
		}
		return false
	default:
		return false
	}
}

// lowPoint scans for the minimum ending balance; strict comparison keeps
// the earliest date on ties.
func lowPoint(rows []Row) Point {
	low := Point{Balance: rows[0].Balance, Date: rows[0].Date}
	for _, r := range rows[1:] {
		if r.Balance.LessThan(low.Balance) {
			low = Point{Balance: r.Balance, Date: r.Date}
		}
	}
	return low
}

// highPoint scans for the maximum ending balance; strict comparison keeps
// the earliest date on ties.
func highPoint(rows []Row) Point {
	high := Point{Balance: rows[0].Balance, Date: rows[0].Date}
	for _, r := range rows[1:] {
		if r.Balance.GreaterThan(high.Balance) {
			high = Point{Balance: r.Balance, Date: r.Date}
		}
	}
	return high
}
