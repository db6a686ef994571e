// Package categorize clusters freshly parsed transactions into recurring
// groups: keyword rules first, then amount-bucket fallback clustering for
// whatever the rules did not claim.
package categorize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/frequency"
	"github.com/flowcast-dev/flowcast/internal/id"
	"github.com/flowcast-dev/flowcast/internal/model"
)

var ten = decimal.NewFromInt(10)

type cluster struct {
	indexes []int
}

// Apply assigns categories to the given transactions in place and returns
// the groups detected among them. Only clusters with two or more members
// become groups; a singleton's transaction keeps a nil group id. Every new
// group starts unconfirmed so the user reviews it before it can reach the
// forecast.
func Apply(txns []model.Transaction) []model.Group {
	clusters := make(map[string]*cluster)
	var order []string

	for i := range txns {
		key := clusterKey(&txns[i])
		c, ok := clusters[key]
		if !ok {
			c = &cluster{}
			clusters[key] = c
			order = append(order, key)
		}
		c.indexes = append(c.indexes, i)
	}

	var groups []model.Group
	for _, key := range order {
		c := clusters[key]
		if len(c.indexes) < 2 {
			continue
		}
		g := materialize(txns, c.indexes, len(groups)+1)
		for _, idx := range c.indexes {
			gid := g.ID
			txns[idx].GroupID = &gid
		}
		groups = append(groups, g)
	}
	return groups
}

// clusterKey buckets a transaction by matched category, or by the fallback
// (abs amount floored to a multiple of 10, type) key when no rule matches.
// Matching also sets the transaction's category as a side effect.
func clusterKey(txn *model.Transaction) string {
	if cat := matchCategory(strings.ToUpper(txn.Description)); cat != "" {
		txn.CategoryID = cat
		return "cat_" + cat
	}
	bucket := txn.Amount.Abs().Div(ten).Floor().Mul(ten)
	return fmt.Sprintf("amount_%s_%s", bucket, txn.Type)
}

func materialize(txns []model.Transaction, indexes []int, seq int) model.Group {
	amounts := make([]decimal.Decimal, 0, len(indexes))
	dates := make([]model.Date, 0, len(indexes))
	ids := make([]int, 0, len(indexes))
	for _, idx := range indexes {
		amounts = append(amounts, txns[idx].Amount)
		dates = append(dates, txns[idx].Date)
		ids = append(ids, txns[idx].ID)
	}

	catID := txns[indexes[0]].CategoryID
	name := fmt.Sprintf("Group %d", seq)
	if catID != model.CategoryUnassigned {
		if cat, ok := model.CategoryByID(catID); ok {
			name = cat.Name
		}
	}

	return model.Group{
		ID:               id.FormatGroupID(seq),
		Name:             name,
		CategoryID:       catID,
		Frequency:        frequency.Detect(dates),
		AvgAmount:        model.MeanAmount(amounts),
		TransactionCount: len(ids),
		TransactionIDs:   ids,
		Confirmed:        false,
	}
}
