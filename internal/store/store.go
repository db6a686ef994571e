// Package store defines the per-company repository the pipeline reads and
// mutates, with in-memory and MongoDB implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// ErrNotFound signals an unknown company ID.
var ErrNotFound = errors.New("company not found")

// Company is the tenant profile.
type Company struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Website        string          `json:"website"`
	LogoURL        string          `json:"logo_url"`
	PrimaryColor   string          `json:"primary_color"`
	SecondaryColor string          `json:"secondary_color"`
	CreatedAt      time.Time       `json:"created_at"`
	SetupStep      string          `json:"setup_step"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// Sentiment records the user's free-form trend expectations. It is stored
// for reporting and not consumed by the forecast engine.
type Sentiment struct {
	Revenue  string `json:"revenue_expectation"` // continue, flatten, reverse
	Expenses string `json:"expense_expectation"`
	Notes    string `json:"notes"`
}

// State is the full aggregate for one company: profile, current import
// batch, detected groups, and trend sentiment.
type State struct {
	Company      Company
	Transactions []model.Transaction
	Groups       []model.Group
	Sentiment    *Sentiment
}

// Clone returns a deep copy of the state, so callers can mutate their copy
// without racing the store's.
func (s *State) Clone() *State {
	out := &State{Company: s.Company}

	if s.Transactions != nil {
		out.Transactions = make([]model.Transaction, len(s.Transactions))
		copy(out.Transactions, s.Transactions)
		for i := range out.Transactions {
			if gid := out.Transactions[i].GroupID; gid != nil {
				v := *gid
				out.Transactions[i].GroupID = &v
			}
		}
	}

	if s.Groups != nil {
		out.Groups = make([]model.Group, len(s.Groups))
		copy(out.Groups, s.Groups)
		for i := range out.Groups {
			ids := make([]int, len(s.Groups[i].TransactionIDs))
			copy(ids, s.Groups[i].TransactionIDs)
			out.Groups[i].TransactionIDs = ids
		}
	}

	if s.Sentiment != nil {
		v := *s.Sentiment
		out.Sentiment = &v
	}
	return out
}

// Store is a key-value repository of company state. Implementations must
// be safe for concurrent use; serialization of read-modify-write cycles is
// the caller's job.
type Store interface {
	// Get returns the state for a company, or ErrNotFound.
	Get(ctx context.Context, companyID string) (*State, error)
	// Put saves or replaces a company's state.
	Put(ctx context.Context, state *State) error
	// List returns all company profiles.
	List(ctx context.Context) ([]Company, error)
	// Count returns the number of companies.
	Count(ctx context.Context) (int, error)
}
