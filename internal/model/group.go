package model

import (
	"github.com/shopspring/decimal"
)

// Group is a set of transactions judged to recur together. Confirmed gates
// inclusion in the forecast; it always starts false so a human reviews the
// auto-detected grouping first.
type Group struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	CategoryID       string          `json:"category_id"`
	Frequency        Frequency       `json:"frequency"`
	AvgAmount        decimal.Decimal `json:"avg_amount"`
	TransactionCount int             `json:"transaction_count"`
	TransactionIDs   []int           `json:"transaction_ids"`
	Confirmed        bool            `json:"confirmed"`
}

// Contains reports whether the group's membership includes txnID.
func (g *Group) Contains(txnID int) bool {
	for _, id := range g.TransactionIDs {
		if id == txnID {
			return true
		}
	}
	return false
}

// Remove deletes txnID from the group's membership and updates the count.
// Average recomputation is the caller's responsibility.
func (g *Group) Remove(txnID int) {
	for i, id := range g.TransactionIDs {
		if id == txnID {
			g.TransactionIDs = append(g.TransactionIDs[:i], g.TransactionIDs[i+1:]...)
			g.TransactionCount = len(g.TransactionIDs)
			return
		}
	}
}

// Add appends txnID to the group's membership (no-op if already present)
// and updates the count. Average recomputation is the caller's
// responsibility.
func (g *Group) Add(txnID int) {
	if g.Contains(txnID) {
		return
	}
	g.TransactionIDs = append(g.TransactionIDs, txnID)
	g.TransactionCount = len(g.TransactionIDs)
}

// MeanAmount returns the arithmetic mean of the given member amounts, or
// zero for an empty slice.
func MeanAmount(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum.Div(decimal.NewFromInt(int64(len(amounts))))
}
