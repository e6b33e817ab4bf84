package recommend

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Alias1177/Rebalancer/internal/criteria"
	"github.com/Alias1177/Rebalancer/internal/decision"
	"github.com/Alias1177/Rebalancer/internal/sentiment"
	"github.com/Alias1177/Rebalancer/models"
)

// ErrRequestNotFound means the requests file has no entry for the identifier.
var ErrRequestNotFound = errors.New("request not found")

// Engine runs the filter-and-decide pipeline over one immutable snapshot of
// the input tables. It holds no mutable state after construction, so a single
// Engine may serve concurrent calls.
type Engine struct {
	accounts          []models.Account
	holdingsByAccount map[string][]models.Holding
	requests          []models.RebalanceRequest
	resolver          *sentiment.Resolver
	logger            zerolog.Logger
}

// NewEngine loads every table from the data source up front.
func NewEngine(src models.DataSource) (*Engine, error) {
	accounts, err := src.Accounts()
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	holdings, err := src.Holdings()
	if err != nil {
		return nil, fmt.Errorf("loading holdings: %w", err)
	}
	conditions, err := src.MarketConditions()
	if err != nil {
		return nil, fmt.Errorf("loading market conditions: %w", err)
	}
	mappings, err := src.SectorMappings()
	if err != nil {
		return nil, fmt.Errorf("loading sector mappings: %w", err)
	}
	requests, err := src.RebalanceRequests()
	if err != nil {
		return nil, fmt.Errorf("loading rebalance requests: %w", err)
	}

	// Group holdings by account, keeping each account's original row order.
	holdingsByAccount := make(map[string][]models.Holding)
	for _, h := range holdings {
		holdingsByAccount[h.AccountID] = append(holdingsByAccount[h.AccountID], h)
	}

	engine := &Engine{
		accounts:          accounts,
		holdingsByAccount: holdingsByAccount,
		requests:          requests,
		resolver:          sentiment.NewResolver(conditions, mappings),
		logger:            log.With().Str("component", "recommend").Logger(),
	}
	engine.logger.Info().
		Int("accounts", len(accounts)).
		Int("holdings", len(holdings)).
		Int("requests", len(requests)).
		Msg("Data loaded")
	return engine, nil
}

// Request looks up a rebalance request by identifier.
func (e *Engine) Request(requestID string) (models.RebalanceRequest, error) {
	for _, r := range e.requests {
		if r.RequestID == requestID {
			return r, nil
		}
	}
	return models.RebalanceRequest{}, fmt.Errorf("%w: %q", ErrRequestNotFound, requestID)
}

// Requests returns every loaded rebalance request in file order.
func (e *Engine) Requests() []models.RebalanceRequest {
	return e.requests
}

// FilterAccounts returns the accounts matched by a request's criteria.
func (e *Engine) FilterAccounts(requestID string) (models.FilterResult, error) {
	request, err := e.Request(requestID)
	if err != nil {
		return models.FilterResult{}, err
	}
	matched, err := criteria.Filter(e.accounts, request.Criteria)
	if err != nil {
		return models.FilterResult{}, fmt.Errorf("request %q: %w", requestID, err)
	}
	ids := make([]string, len(matched))
	for i, account := range matched {
		ids[i] = account.ID
	}
	return models.FilterResult{RequestID: requestID, Count: len(matched), AccountIDs: ids}, nil
}

// FilterAll applies every loaded request and reports the matches per request,
// in file order. A malformed request aborts only its own entry.
func (e *Engine) FilterAll() ([]models.FilterResult, []error) {
	results := make([]models.FilterResult, 0, len(e.requests))
	var errs []error
	for _, request := range e.requests {
		result, err := e.FilterAccounts(request.RequestID)
		if err != nil {
			e.logger.Error().Err(err).Str("request_id", request.RequestID).
				Msg("Filtering failed")
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}
	return results, errs
}

// GenerateRecommendations runs the full pipeline for one request: filter the
// accounts, join their holdings, resolve sentiment per ticker and apply the
// decision table. Accounts without holdings are omitted from the output;
// every holding of an included account yields a trade row, HOLD and NO_DATA
// included.
func (e *Engine) GenerateRecommendations(requestID string) (*models.RecommendationDocument, error) {
	request, err := e.Request(requestID)
	if err != nil {
		return nil, err
	}
	matched, err := criteria.Filter(e.accounts, request.Criteria)
	if err != nil {
		return nil, fmt.Errorf("request %q: %w", requestID, err)
	}

	doc := &models.RecommendationDocument{
		RequestID: requestID,
		Accounts:  []models.AccountTrades{},
	}
	for _, account := range matched {
		holdings := e.holdingsByAccount[account.ID]
		if len(holdings) == 0 {
			continue
		}
		trades := make([]models.Trade, 0, len(holdings))
		for _, holding := range holdings {
			condition, ok := e.resolver.Resolve(holding.Ticker)
			trades = append(trades, decision.Decide(holding, condition, ok))
		}
		doc.Accounts = append(doc.Accounts, models.AccountTrades{
			AccountID: account.ID,
			Trades:    trades,
		})
	}

	e.logger.Info().
		Str("request_id", requestID).
		Int("matched_accounts", len(matched)).
		Int("accounts_with_holdings", len(doc.Accounts)).
		Msg("Recommendations generated")
	return doc, nil
}

// HoldingsReport summarizes the positions of every account matched by a
// request, with per-account totals.
func (e *Engine) HoldingsReport(requestID string) (*models.HoldingsReport, error) {
	request, err := e.Request(requestID)
	if err != nil {
		return nil, err
	}
	matched, err := criteria.Filter(e.accounts, request.Criteria)
	if err != nil {
		return nil, fmt.Errorf("request %q: %w", requestID, err)
	}

	report := &models.HoldingsReport{
		RequestID:       requestID,
		MatchedAccounts: len(matched),
		AccountHoldings: make(map[string]models.AccountHoldings),
	}
	for _, account := range matched {
		holdings := e.holdingsByAccount[account.ID]
		if len(holdings) == 0 {
			continue
		}
		positions := make([]models.Position, len(holdings))
		total := decimal.Zero
		for i, h := range holdings {
			positions[i] = models.Position{
				Ticker:        h.Ticker,
				Qty:           h.Qty,
				Price:         h.Price,
				PositionTotal: h.PositionTotal,
			}
			total = total.Add(h.PositionTotal)
		}
		report.AccountHoldings[account.ID] = models.AccountHoldings{
			Positions:     positions,
			TotalValue:    total,
			PositionCount: len(holdings),
		}
	}
	return report, nil
}
