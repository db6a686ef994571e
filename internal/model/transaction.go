package model

import (
	"github.com/shopspring/decimal"
)

// Transaction types, derived from the sign of the amount.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Transaction is one reconstructed statement line. IDs are sequential and
// scoped to a single import batch; a re-import replaces the whole batch.
type Transaction struct {
	ID          int             `json:"id"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // positive = credit, negative = debit
	Type        string          `json:"type"`
	GroupID     *string         `json:"group_id"`
	CategoryID  string          `json:"category_id"`
}

// TransactionType returns "credit" for positive amounts, "debit" otherwise.
func TransactionType(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return TypeCredit
	}
	return TypeDebit
}
