package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/flowcast-dev/flowcast/internal/company"
	"github.com/flowcast-dev/flowcast/internal/forecast"
	"github.com/flowcast-dev/flowcast/internal/ledger"
	"github.com/flowcast-dev/flowcast/internal/model"
	"github.com/flowcast-dev/flowcast/internal/store"
)

// Handlers exposes the company and ledger services over HTTP.
type Handlers struct {
	companies *company.Service
	ledger    *ledger.Service
	log       zerolog.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(companies *company.Service, ledg *ledger.Service, log zerolog.Logger) *Handlers {
	return &Handlers{companies: companies, ledger: ledg, log: log}
}

// Routes returns the API mux.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/company/create", h.createCompany)
	mux.HandleFunc("GET /api/company/{company_id}", h.getCompany)
	mux.HandleFunc("POST /api/company/{company_id}/fetch-branding", h.fetchBranding)
	mux.HandleFunc("POST /api/company/{company_id}/set-balance", h.setBalance)
	mux.HandleFunc("POST /api/company/{company_id}/import-data", h.importData)
	mux.HandleFunc("GET /api/company/{company_id}/groups", h.listGroups)
	mux.HandleFunc("GET /api/company/{company_id}/group/{group_id}", h.groupDetail)
	mux.HandleFunc("POST /api/company/{company_id}/group/{group_id}/update", h.updateGroup)
	mux.HandleFunc("POST /api/company/{company_id}/move-transactions", h.moveTransactions)
	mux.HandleFunc("GET /api/company/{company_id}/forecast", h.getForecast)
	mux.HandleFunc("GET /api/company/{company_id}/trends", h.getTrends)
	mux.HandleFunc("POST /api/company/{company_id}/trend-sentiment", h.setSentiment)
	return mux
}

// serviceError maps service errors onto HTTP statuses: NotFound lookups to
// 404, the forecast's recoverable not-ready state to 409, everything else
// to a 400 validation response.
func (h *Handlers) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, forecast.ErrNotReady):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (h *Handlers) createCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name"`
		Website        string `json:"website"`
		LogoURL        string `json:"logo_url"`
		PrimaryColor   string `json:"primary_color"`
		SecondaryColor string `json:"secondary_color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.companies.Create(r.Context(), company.CreateParams{
		Name:           req.Name,
		Website:        req.Website,
		LogoURL:        req.LogoURL,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
	})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"company_id":  result.CompanyID,
		"access_code": result.AccessCode,
	})
}

func (h *Handlers) getCompany(w http.ResponseWriter, r *http.Request) {
	profile, err := h.companies.Get(r.Context(), r.PathValue("company_id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handlers) fetchBranding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Website string `json:"website"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, company.FetchBranding(req.Website))
}

func (h *Handlers) setBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.companies.SetBalance(r.Context(), r.PathValue("company_id"), req.Balance); err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) importData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.ledger.Import(r.Context(), r.PathValue("company_id"), req.Data)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":               true,
		"transactions_imported": result.TransactionsImported,
		"groups_detected":       result.GroupsDetected,
		"date_range":            result.DateRange,
	})
}

func (h *Handlers) listGroups(w http.ResponseWriter, r *http.Request) {
	view, err := h.ledger.Groups(r.Context(), r.PathValue("company_id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) groupDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.ledger.Detail(r.Context(), r.PathValue("company_id"), r.PathValue("group_id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) updateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       *string          `json:"name"`
		CategoryID *string          `json:"category_id"`
		Frequency  *model.Frequency `json:"frequency"`
		Confirmed  *bool            `json:"confirmed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.ledger.UpdateGroup(r.Context(), r.PathValue("company_id"), r.PathValue("group_id"), ledger.UpdateGroupParams{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Frequency:  req.Frequency,
		Confirmed:  req.Confirmed,
	})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "group": group})
}

func (h *Handlers) moveTransactions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TransactionIDs []int           `json:"transaction_ids"`
		TargetGroupID  string          `json:"target_group_id"`
		NewGroupName   string          `json:"new_group_name"`
		CategoryID     string          `json:"category_id"`
		Frequency      model.Frequency `json:"frequency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := ledger.MoveParams{
		TransactionIDs: req.TransactionIDs,
		TargetGroupID:  req.TargetGroupID,
	}
	if req.NewGroupName != "" {
		params.NewGroup = &ledger.NewGroupParams{
			Name:       req.NewGroupName,
			CategoryID: req.CategoryID,
			Frequency:  req.Frequency,
		}
	}

	result, err := h.ledger.MoveTransactions(r.Context(), r.PathValue("company_id"), params)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"moved":           result.Moved,
		"target_group_id": result.TargetGroupID,
	})
}

func (h *Handlers) getForecast(w http.ResponseWriter, r *http.Request) {
	days := forecast.DefaultHorizonDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	result, err := h.ledger.Forecast(r.Context(), r.PathValue("company_id"), days)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) getTrends(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledger.Trends(r.Context(), r.PathValue("company_id"))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"weekly_data": result.Weekly,
		"trends": map[string]any{
			"revenue":  result.Revenue,
			"expenses": result.Expenses,
		},
	})
}

func (h *Handlers) setSentiment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Revenue  string `json:"revenue"`
		Expenses string `json:"expenses"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.companies.SetSentiment(r.Context(), r.PathValue("company_id"), store.Sentiment{
		Revenue:  req.Revenue,
		Expenses: req.Expenses,
		Notes:    req.Notes,
	})
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
