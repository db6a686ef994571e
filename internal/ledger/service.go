// Package ledger owns a company's transaction batch and groups. Every read
// and review operation goes through Service, which serializes access per
// company and keeps the membership count and average invariants intact.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/categorize"
	"github.com/flowcast-dev/flowcast/internal/forecast"
	"github.com/flowcast-dev/flowcast/internal/id"
	"github.com/flowcast-dev/flowcast/internal/model"
	"github.com/flowcast-dev/flowcast/internal/parser"
	"github.com/flowcast-dev/flowcast/internal/store"
	"github.com/flowcast-dev/flowcast/internal/trend"
)

// SetupStepCategorization is the company setup step after a successful
// import.
const SetupStepCategorization = "categorization"

// Service provides import and review operations over company state. The
// lock registry is shared with every other service writing to the same
// store, so a company's read-modify-write cycles never interleave.
type Service struct {
	store store.Store
	locks *store.Locks
	now   func() time.Time
}

// NewService creates a ledger Service over the given store and lock
// registry.
func NewService(st store.Store, locks *store.Locks) *Service {
	return &Service{
		store: st,
		locks: locks,
		now:   time.Now,
	}
}

// DateRange is the observed transaction date span of an import.
type DateRange struct {
	Start *model.Date `json:"start"`
	End   *model.Date `json:"end"`
}

// ImportResult summarizes one import batch.
type ImportResult struct {
	TransactionsImported int       `json:"transactions_imported"`
	GroupsDetected       int       `json:"groups_detected"`
	DateRange            DateRange `json:"date_range"`
}

// Import parses a raw statement blob, auto-categorizes the result, and
// replaces the company's previous batch and groups.
func (s *Service) Import(ctx context.Context, companyID, raw string) (ImportResult, error) {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return ImportResult{}, err
	}

	parsed := parser.Parse(raw)
	groups := categorize.Apply(parsed.Transactions)

	state.Transactions = parsed.Transactions
	state.Groups = groups
	state.Company.SetupStep = SetupStepCategorization

	if err := s.store.Put(ctx, state); err != nil {
		return ImportResult{}, err
	}

	return ImportResult{
		TransactionsImported: len(parsed.Transactions),
		GroupsDetected:       len(groups),
		DateRange:            DateRange{Start: parsed.StartDate, End: parsed.EndDate},
	}, nil
}

// GroupsView is the group listing with the read-only reference tables
// exposed alongside.
type GroupsView struct {
	Groups      []model.Group           `json:"groups"`
	Categories  []model.Category        `json:"categories"`
	Frequencies []model.FrequencyOption `json:"frequencies"`
}

// Groups lists a company's groups for review.
func (s *Service) Groups(ctx context.Context, companyID string) (GroupsView, error) {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return GroupsView{}, err
	}
	return GroupsView{
		Groups:      state.Groups,
		Categories:  model.Categories(),
		Frequencies: model.FrequencyOptions(),
	}, nil
}

// GroupDetail is one group with its member transactions.
type GroupDetail struct {
	Group        model.Group         `json:"group"`
	Transactions []model.Transaction `json:"transactions"`
}

// Detail returns a group and its member transactions.
func (s *Service) Detail(ctx context.Context, companyID, groupID string) (GroupDetail, error) {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return GroupDetail{}, err
	}

	group := findGroup(state, groupID)
	if group == nil {
		return GroupDetail{}, fmt.Errorf("group %q: %w", groupID, store.ErrNotFound)
	}

	var members []model.Transaction
	for _, txn := range state.Transactions {
		if txn.GroupID != nil && *txn.GroupID == groupID {
			members = append(members, txn)
		}
	}
	return GroupDetail{Group: *group, Transactions: members}, nil
}

// UpdateGroupParams carries the optional review edits; nil fields are left
// unchanged.
type UpdateGroupParams struct {
	Name       *string
	CategoryID *string
	Frequency  *model.Frequency
	Confirmed  *bool
}

// UpdateGroup renames, recategorizes, reassigns frequency, or confirms a
// group. Category and frequency values are validated against the fixed
// reference tables.
func (s *Service) UpdateGroup(ctx context.Context, companyID, groupID string, params UpdateGroupParams) (model.Group, error) {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return model.Group{}, err
	}

	group := findGroup(state, groupID)
	if group == nil {
		return model.Group{}, fmt.Errorf("group %q: %w", groupID, store.ErrNotFound)
	}

	if params.Name != nil {
		group.Name = *params.Name
	}
	if params.CategoryID != nil {
		if _, ok := model.CategoryByID(*params.CategoryID); !ok {
			return model.Group{}, fmt.Errorf("unknown category %q", *params.CategoryID)
		}
		group.CategoryID = *params.CategoryID
	}
	if params.Frequency != nil {
		if !model.ValidFrequency(*params.Frequency) {
			return model.Group{}, fmt.Errorf("unknown frequency %q", *params.Frequency)
		}
		group.Frequency = *params.Frequency
	}
	if params.Confirmed != nil {
		group.Confirmed = *params.Confirmed
	}

	if err := s.store.Put(ctx, state); err != nil {
		return model.Group{}, err
	}
	return *group, nil
}

// NewGroupParams describes a brand-new group created by a move.
type NewGroupParams struct {
	Name       string
	CategoryID string
	Frequency  model.Frequency
}

// MoveParams selects the transactions to move and their destination:
// either an existing TargetGroupID or NewGroup parameters.
type MoveParams struct {
	TransactionIDs []int
	TargetGroupID  string
	NewGroup       *NewGroupParams
}

// MoveResult reports the outcome of a move.
type MoveResult struct {
	Moved         int    `json:"moved"`
	TargetGroupID string `json:"target_group_id"`
}

// MoveTransactions moves the selected transactions into the target group,
// updating source and destination membership, counts, and averages in one
// atomic operation. An empty selection is rejected; unknown transaction or
// group ids surface as NotFound.
func (s *Service) MoveTransactions(ctx context.Context, companyID string, params MoveParams) (MoveResult, error) {
	if len(params.TransactionIDs) == 0 {
		return MoveResult{}, fmt.Errorf("no transaction ids given")
	}

	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return MoveResult{}, err
	}

	byID := make(map[int]*model.Transaction, len(state.Transactions))
	for i := range state.Transactions {
		byID[state.Transactions[i].ID] = &state.Transactions[i]
	}
	for _, txnID := range params.TransactionIDs {
		if _, ok := byID[txnID]; !ok {
			return MoveResult{}, fmt.Errorf("transaction %d: %w", txnID, store.ErrNotFound)
		}
	}

	targetID := params.TargetGroupID
	if params.NewGroup != nil {
		group, err := newGroup(state, *params.NewGroup)
		if err != nil {
			return MoveResult{}, err
		}
		state.Groups = append(state.Groups, group)
		targetID = group.ID
	}

	target := findGroup(state, targetID)
	if target == nil {
		return MoveResult{}, fmt.Errorf("group %q: %w", targetID, store.ErrNotFound)
	}

	moved := 0
	for _, txnID := range params.TransactionIDs {
		txn := byID[txnID]
		if txn.GroupID != nil {
			if src := findGroup(state, *txn.GroupID); src != nil {
				src.Remove(txnID)
			}
		}
		target.Add(txnID)
		gid := targetID
		txn.GroupID = &gid
		moved++
	}

	recomputeAverages(state)

	if err := s.store.Put(ctx, state); err != nil {
		return MoveResult{}, err
	}
	return MoveResult{Moved: moved, TargetGroupID: targetID}, nil
}

// Forecast runs the balance simulation over the company's confirmed groups
// starting from today and the company's current balance.
func (s *Service) Forecast(ctx context.Context, companyID string, days int) (*forecast.Result, error) {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return forecast.Run(state.Groups, state.Company.CurrentBalance, days, model.DateOf(s.now()))
}

// Trends analyzes the company's transaction batch by ISO week.
func (s *Service) Trends(ctx context.Context, companyID string) (trend.Result, error) {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return trend.Result{}, err
	}
	return trend.Analyze(state.Transactions), nil
}

func newGroup(state *store.State, params NewGroupParams) (model.Group, error) {
	if params.Name == "" {
		return model.Group{}, fmt.Errorf("new group name is required")
	}

	catID := params.CategoryID
	if catID == "" {
		catID = model.CategoryUnassigned
	}
	if _, ok := model.CategoryByID(catID); !ok {
		return model.Group{}, fmt.Errorf("unknown category %q", catID)
	}

	freq := params.Frequency
	if freq == "" {
		freq = model.FreqVaries
	}
	if !model.ValidFrequency(freq) {
		return model.Group{}, fmt.Errorf("unknown frequency %q", freq)
	}

	return model.Group{
		ID:         id.FormatGroupID(len(state.Groups) + 1),
		Name:       params.Name,
		CategoryID: catID,
		Frequency:  freq,
		AvgAmount:  decimal.Zero,
		Confirmed:  false,
	}, nil
}

func findGroup(state *store.State, groupID string) *model.Group {
	for i := range state.Groups {
		if state.Groups[i].ID == groupID {
			return &state.Groups[i]
		}
	}
	return nil
}

// recomputeAverages refreshes every group's average from its current
// members, so no average is ever left stale after a membership change.
func recomputeAverages(state *store.State) {
	byID := make(map[int]*model.Transaction, len(state.Transactions))
	for i := range state.Transactions {
		byID[state.Transactions[i].ID] = &state.Transactions[i]
	}

	for i := range state.Groups {
		g := &state.Groups[i]
		amounts := make([]decimal.Decimal, 0, len(g.TransactionIDs))
		for _, txnID := range g.TransactionIDs {
			if txn, ok := byID[txnID]; ok {
				amounts = append(amounts, txn.Amount)
			}
		}
		g.AvgAmount = model.MeanAmount(amounts)
		g.TransactionCount = len(g.TransactionIDs)
	}
}
