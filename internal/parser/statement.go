// Package parser reconstructs transaction records from unstructured bank
// statement text exports.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// Result is the outcome of parsing one statement blob. StartDate/EndDate
// are the minimum and maximum transaction dates observed, nil when no
// transactions were extracted.
type Result struct {
	Transactions []model.Transaction
	StartDate    *model.Date
	EndDate      *model.Date
}

// Date-header patterns, tried in fixed priority order. A matching line
// updates the current date context and never becomes a transaction.
var (
	monthNameDate = regexp.MustCompile(`^([A-Za-z]{3})\s+(\d{1,2}),?\s*(\d{4})`) // JAN 13, 2026
	slashDate     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`)           // 01/13/2026
	isoDate       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)               // 2026-01-13
)

// Candidate transaction lines split into fields on tabs or runs of two or
// more whitespace characters.
var fieldSplit = regexp.MustCompile(`\t+|\s{2,}`)

// amountCleaner strips a currency symbol and thousands separators before
// numeric conversion.
var amountCleaner = strings.NewReplacer("$", "", ",", "")

var monthsByName = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// timeNow is swapped in tests.
var timeNow = time.Now

// Parse processes a raw statement blob line by line. Lines that cannot be
// parsed into a qualifying transaction are silently skipped; a batch with
// zero extracted transactions is still a successful result.
func Parse(raw string) Result {
	var (
		txns        []model.Transaction
		currentDate *model.Date
	)

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if date, isHeader := parseDateHeader(line); isHeader {
			if date != nil {
				currentDate = date
			}
			continue
		}

		txn, ok := parseTransactionLine(line)
		if !ok {
			continue
		}
		txn.ID = len(txns) + 1
		if currentDate != nil {
			txn.Date = *currentDate
		} else {
			txn.Date = model.DateOf(timeNow())
		}
		txns = append(txns, txn)
	}

	return Result{
		Transactions: txns,
		StartDate:    minDate(txns),
		EndDate:      maxDate(txns),
	}
}

// parseDateHeader reports whether the line is a date header, and the date
// it carries. A header with an unparseable date is still consumed as a
// header; the date context is left unchanged.
func parseDateHeader(line string) (*model.Date, bool) {
	if m := monthNameDate.FindStringSubmatch(line); m != nil {
		month, ok := monthsByName[strings.ToUpper(m[1])]
		if !ok {
			month = time.January
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return validDate(year, month, day), true
	}

	if m := slashDate.FindStringSubmatch(line); m != nil {
		monthNum, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if monthNum < 1 || monthNum > 12 {
			return nil, true
		}
		return validDate(year, time.Month(monthNum), day), true
	}

	if m := isoDate.FindStringSubmatch(line); m != nil {
		year, _ := strconv.Atoi(m[1])
		monthNum, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if monthNum < 1 || monthNum > 12 {
			return nil, true
		}
		return validDate(year, time.Month(monthNum), day), true
	}

	return nil, false
}

// validDate returns the date, or nil when the day overflows the month.
func validDate(year int, month time.Month, day int) *model.Date {
	d := model.NewDate(year, month, day)
	if d.Day() != day || d.Month() != month {
		return nil
	}
	return &d
}

// parseTransactionLine interprets one candidate line. It qualifies only if
// splitting yields at least two fields and at least one field parses as a
// numeric value.
func parseTransactionLine(line string) (model.Transaction, bool) {
	parts := fieldSplit.Split(line, -1)
	if len(parts) < 2 {
		return model.Transaction{}, false
	}

	description := parts[0]
	if len(parts[0]) <= 5 {
		description = parts[1]
	}

	var amounts []decimal.Decimal
	for _, part := range parts {
		cleaned := amountCleaner.Replace(part)
		if amt, err := decimal.NewFromString(cleaned); err == nil {
			amounts = append(amounts, amt)
		}
	}
	if len(amounts) == 0 {
		return model.Transaction{}, false
	}

	amount := resolveAmount(amounts)

	return model.Transaction{
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Type:        model.TransactionType(amount),
		GroupID:     nil,
		CategoryID:  model.CategoryUnassigned,
	}, true
}

// resolveAmount applies the fixed two-column convention: with two or more
// numeric fields the first is the debit column and the second the credit
// column; amount = credit - debit when credit is positive, else -debit.
func resolveAmount(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) < 2 {
		return amounts[0]
	}
	debit, credit := decimal.Zero, decimal.Zero
	if amounts[0].IsPositive() {
		debit = amounts[0]
	}
	if amounts[1].IsPositive() {
		credit = amounts[1]
	}
	if credit.IsPositive() {
		return credit.Sub(debit)
	}
	return debit.Neg()
}

func minDate(txns []model.Transaction) *model.Date {
	var min *model.Date
	for i := range txns {
		if min == nil || txns[i].Date.Before(min.Time) {
			min = &txns[i].Date
		}
	}
	return min
}

func maxDate(txns []model.Transaction) *model.Date {
	var max *model.Date
	for i := range txns {
		if max == nil || txns[i].Date.After(max.Time) {
			max = &txns[i].Date
		}
	}
	return max
}
