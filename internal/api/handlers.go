package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/xiello/tracy/internal/domain"
	"github.com/xiello/tracy/internal/query"
)

type parseRequest struct {
	Text string `json:"text"`
}

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Answer string `json:"answer"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Merchant    string `json:"merchant,omitempty"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

func toTransactionResponse(t domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Category:    t.Category,
		Merchant:    t.Merchant,
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Date:        t.Date.Format("2006-01-02"),
	}
}

// handleParse parses text without persisting anything.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty \"text\" field")
		return
	}
	parsed := s.parser.Parse(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, parsed)
}

// handleCreateTransaction parses text and persists the result.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty \"text\" field")
		return
	}
	parsed := s.parser.Parse(r.Context(), req.Text)
	stored, err := s.store.InsertParsed(r.Context(), parsed)
	if err != nil {
		if errors.Is(err, domain.ErrNoAmount) {
			writeError(w, http.StatusUnprocessableEntity, "no amount found in text")
			return
		}
		s.log.Error().Err(err).Msg("insert transaction")
		writeError(w, http.StatusInternalServerError, "could not store transaction")
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(stored))
}

// handleListTransactions lists the current month's entries, or a custom
// window given ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	from, to, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	txs, err := s.store.ListTransactions(r.Context(), from, to)
	if err != nil {
		s.log.Error().Err(err).Msg("list transactions")
		writeError(w, http.StatusInternalServerError, "could not list transactions")
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleQuery runs the question through the query pipeline.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty \"question\" field")
		return
	}
	answer := s.querier.Answer(r.Context(), req.Question)
	writeJSON(w, http.StatusOK, queryResponse{Answer: answer})
}

type summaryResponse struct {
	From          string            `json:"from"`
	To            string            `json:"to"`
	TotalIncome   string            `json:"total_income"`
	TotalExpenses string            `json:"total_expenses"`
	Net           string            `json:"net"`
	SavingsRate   string            `json:"savings_rate"`
	TotalBalance  string            `json:"total_balance"`
	TopCategories map[string]string `json:"top_categories"`
}

// handleSummary returns aggregate numbers for the window.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fc, err := query.BuildContext(r.Context(), s.ledger, from, to)
	if err != nil {
		s.log.Error().Err(err).Msg("build summary")
		writeError(w, http.StatusInternalServerError, "could not compute summary")
		return
	}
	resp := summaryResponse{
		From:          fc.From.Format("2006-01-02"),
		To:            fc.To.Format("2006-01-02"),
		TotalIncome:   fc.TotalIncome.StringFixed(2),
		TotalExpenses: fc.TotalExpenses.StringFixed(2),
		Net:           fc.Net.StringFixed(2),
		SavingsRate:   fc.SavingsRate.String(),
		TotalBalance:  fc.TotalBalance.StringFixed(2),
		TopCategories: make(map[string]string, len(fc.TopCategories)),
	}
	for _, c := range fc.TopCategories {
		resp.TopCategories[c.Category] = c.Total.StringFixed(2)
	}
	writeJSON(w, http.StatusOK, resp)
}

// windowFromQuery reads an optional [from, to) window from the URL,
// defaulting to the current calendar month.
func windowFromQuery(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be YYYY-MM-DD")
		}
		to = parsed
	}
	return from, to, nil
}
