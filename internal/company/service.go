// Package company manages tenant profiles: creation, branding, current
// balance, and trend sentiment.
package company

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/id"
	"github.com/flowcast-dev/flowcast/internal/store"
)

// Profile defaults for a freshly created company.
const (
	DefaultName           = "My Company"
	DefaultPrimaryColor   = "#FF8A65"
	DefaultSecondaryColor = "#FFA726"
	SetupStepDataUpload   = "data_upload"
)

// Service provides company profile operations. Balance and sentiment
// writes rewrite the whole company State, so they hold the same per-company
// lock the ledger service uses; otherwise a write landing between an
// import's read and commit would put the stale aggregate back.
type Service struct {
	store store.Store
	locks *store.Locks
	now   func() time.Time
}

// NewService creates a company Service over the given store and lock
// registry.
func NewService(st store.Store, locks *store.Locks) *Service {
	return &Service{store: st, locks: locks, now: time.Now}
}

// CreateParams holds the onboarding profile fields.
type CreateParams struct {
	Name           string
	Website        string
	LogoURL        string
	PrimaryColor   string
	SecondaryColor string
}

// CreateResult is the outcome of company creation.
type CreateResult struct {
	CompanyID  string `json:"company_id"`
	AccessCode string `json:"access_code"`
}

// Create registers a new company with an ID derived from its name.
func (s *Service) Create(ctx context.Context, params CreateParams) (CreateResult, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return CreateResult{}, err
	}

	companyID := id.CompanyID(params.Name, count)

	company := store.Company{
		ID:             companyID,
		Name:           params.Name,
		Website:        params.Website,
		LogoURL:        params.LogoURL,
		PrimaryColor:   params.PrimaryColor,
		SecondaryColor: params.SecondaryColor,
		CreatedAt:      s.now(),
		SetupStep:      SetupStepDataUpload,
		CurrentBalance: decimal.Zero,
	}
	if company.Name == "" {
		company.Name = DefaultName
	}
	if company.PrimaryColor == "" {
		company.PrimaryColor = DefaultPrimaryColor
	}
	if company.SecondaryColor == "" {
		company.SecondaryColor = DefaultSecondaryColor
	}

	if err := s.store.Put(ctx, &store.State{Company: company}); err != nil {
		return CreateResult{}, err
	}
	return CreateResult{CompanyID: companyID, AccessCode: id.AccessCode(companyID)}, nil
}

// Get returns a company profile.
func (s *Service) Get(ctx context.Context, companyID string) (store.Company, error) {
	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return store.Company{}, err
	}
	return state.Company, nil
}

// Branding is a best-effort logo/color suggestion derived from a website.
type Branding struct {
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Extracted      bool   `json:"extracted"`
}

// FetchBranding derives a logo URL from the company website. No outbound
// request is made; the logo service resolves the host itself.
func FetchBranding(website string) Branding {
	b := Branding{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		Extracted:      true,
	}
	if website == "" {
		return b
	}

	host := strings.TrimPrefix(strings.TrimPrefix(website, "https://"), "http://")
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	b.LogoURL = "https://logo.clearbit.com/" + host
	return b
}

// SetBalance records the company's confirmed current balance, the starting
// point of every forecast.
func (s *Service) SetBalance(ctx context.Context, companyID string, balance decimal.Decimal) error {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return err
	}
	state.Company.CurrentBalance = balance
	if err := s.store.Put(ctx, state); err != nil {
		return fmt.Errorf("saving balance: %w", err)
	}
	return nil
}

// SetSentiment records the user's trend expectations. Empty expectations
// default to "continue".
func (s *Service) SetSentiment(ctx context.Context, companyID string, sentiment store.Sentiment) error {
	unlock := s.locks.Lock(companyID)
	defer unlock()

	state, err := s.store.Get(ctx, companyID)
	if err != nil {
		return err
	}
	if sentiment.Revenue == "" {
		sentiment.Revenue = "continue"
	}
	if sentiment.Expenses == "" {
		sentiment.Expenses = "continue"
	}
	state.Sentiment = &sentiment
	if err := s.store.Put(ctx, state); err != nil {
		return fmt.Errorf("saving sentiment: %w", err)
	}
	return nil
}
