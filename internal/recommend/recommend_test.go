package recommend

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/Rebalancer/internal/criteria"
	"github.com/Alias1177/Rebalancer/models"
)

// memSource is an in-memory models.DataSource for pipeline tests.
type memSource struct {
	accounts   []models.Account
	holdings   []models.Holding
	conditions []models.MarketCondition
	mappings   []models.SectorMapping
	requests   []models.RebalanceRequest
}

func (m *memSource) Accounts() ([]models.Account, error)                 { return m.accounts, nil }
func (m *memSource) Holdings() ([]models.Holding, error)                 { return m.holdings, nil }
func (m *memSource) MarketConditions() ([]models.MarketCondition, error) { return m.conditions, nil }
func (m *memSource) SectorMappings() ([]models.SectorMapping, error)     { return m.mappings, nil }

func (m *memSource) RebalanceRequests() ([]models.RebalanceRequest, error) {
	return m.requests, nil
}

func account(id string, attrs map[string]string) models.Account {
	parsed := make(map[string]models.AttrValue, len(attrs)+1)
	parsed["Account_ID"] = models.ParseAttrValue(id)
	for name, value := range attrs {
		parsed[name] = models.ParseAttrValue(value)
	}
	return models.Account{ID: id, Attributes: parsed}
}

func holding(accountID, ticker string, qty int, price string) models.Holding {
	p := decimal.RequireFromString(price)
	return models.Holding{
		AccountID:     accountID,
		Ticker:        ticker,
		Qty:           qty,
		Price:         p,
		PositionTotal: p.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func newTestEngine(t *testing.T, src *memSource) *Engine {
	t.Helper()
	engine, err := NewEngine(src)
	require.NoError(t, err)
	return engine
}

func TestGenerateRecommendationsSecurityCondition(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{
			account("A1", map[string]string{"State": "NY", "Risk_Tolerance": "Aggressive"}),
		},
		holdings: []models.Holding{holding("A1", "AAPL", 100, "150")},
		conditions: []models.MarketCondition{
			{Type: models.TypeSecurity, Name: "AAPL", Condition: models.ConditionPositive},
		},
		requests: []models.RebalanceRequest{{
			RequestID: "req-1",
			Criteria:  []models.Criterion{{Attribute: "state", Operator: "=", Value: "NY"}},
		}},
	})

	doc, err := engine.GenerateRecommendations("req-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", doc.RequestID)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "A1", doc.Accounts[0].AccountID)
	require.Len(t, doc.Accounts[0].Trades, 1)
	assert.Equal(t, models.Trade{Ticker: "AAPL", Qty: 100, Action: models.ActionBuy}, doc.Accounts[0].Trades[0])
}

func TestGenerateRecommendationsSectorFallback(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{account("A1", map[string]string{"State": "NY"})},
		holdings: []models.Holding{holding("A1", "AAPL", 100, "150")},
		conditions: []models.MarketCondition{
			{Type: models.TypeSector, Name: "Technology", Condition: models.ConditionNegative},
		},
		mappings: []models.SectorMapping{{Symbol: "AAPL", Sector: "Technology"}},
		requests: []models.RebalanceRequest{{
			RequestID: "req-1",
			Criteria:  []models.Criterion{{Attribute: "state", Operator: "=", Value: "NY"}},
		}},
	})

	doc, err := engine.GenerateRecommendations("req-1")
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, models.Trade{Ticker: "AAPL", Qty: 100, Action: models.ActionSell}, doc.Accounts[0].Trades[0])
}

func TestGenerateRecommendationsNoData(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{account("A1", map[string]string{"State": "NY"})},
		holdings: []models.Holding{holding("A1", "ZZZZ", 10, "5")},
		requests: []models.RebalanceRequest{{RequestID: "req-1"}},
	})

	doc, err := engine.GenerateRecommendations("req-1")
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, models.Trade{Ticker: "ZZZZ", Qty: 0, Action: models.ActionNoData}, doc.Accounts[0].Trades[0])
}

func TestGenerateRecommendationsHoldEmittedWithZeroQty(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{account("A1", nil)},
		holdings: []models.Holding{holding("A1", "KO", 40, "60")},
		conditions: []models.MarketCondition{
			{Type: models.TypeSecurity, Name: "KO", Condition: models.ConditionNeutral},
		},
		requests: []models.RebalanceRequest{{RequestID: "req-1"}},
	})

	doc, err := engine.GenerateRecommendations("req-1")
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, models.Trade{Ticker: "KO", Qty: 0, Action: models.ActionHold}, doc.Accounts[0].Trades[0])
}

func TestGenerateRecommendationsOmitsAccountsWithoutHoldings(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{
			account("A1", map[string]string{"State": "NY"}),
			account("A2", map[string]string{"State": "NY"}),
		},
		holdings: []models.Holding{holding("A2", "AAPL", 5, "150")},
		conditions: []models.MarketCondition{
			{Type: models.TypeSecurity, Name: "AAPL", Condition: models.ConditionPositive},
		},
		requests: []models.RebalanceRequest{{
			RequestID: "req-1",
			Criteria:  []models.Criterion{{Attribute: "state", Operator: "=", Value: "NY"}},
		}},
	})

	doc, err := engine.GenerateRecommendations("req-1")
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "A2", doc.Accounts[0].AccountID)
}

func TestGenerateRecommendationsPreservesHoldingOrder(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{account("A1", nil)},
		holdings: []models.Holding{
			holding("A1", "MSFT", 10, "400"),
			holding("A1", "AAPL", 20, "150"),
			holding("A1", "XOM", 30, "110"),
		},
		conditions: []models.MarketCondition{
			{Type: models.TypeSecurity, Name: "MSFT", Condition: models.ConditionPositive},
			{Type: models.TypeSecurity, Name: "AAPL", Condition: models.ConditionNegative},
		},
		requests: []models.RebalanceRequest{{RequestID: "req-1"}},
	})

	doc, err := engine.GenerateRecommendations("req-1")
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	tickers := make([]string, len(doc.Accounts[0].Trades))
	for i, trade := range doc.Accounts[0].Trades {
		tickers[i] = trade.Ticker
	}
	assert.Equal(t, []string{"MSFT", "AAPL", "XOM"}, tickers)
}

func TestGenerateRecommendationsUnsupportedOperatorFatal(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{account("A1", map[string]string{"State": "NY"})},
		holdings: []models.Holding{holding("A1", "AAPL", 100, "150")},
		requests: []models.RebalanceRequest{{
			RequestID: "req-1",
			Criteria:  []models.Criterion{{Attribute: "state", Operator: "~=", Value: "NY"}},
		}},
	})

	doc, err := engine.GenerateRecommendations("req-1")
	require.ErrorIs(t, err, criteria.ErrUnsupportedOperator)
	assert.Nil(t, doc)
}

func TestGenerateRecommendationsUnknownRequest(t *testing.T) {
	engine := newTestEngine(t, &memSource{})

	_, err := engine.GenerateRecommendations("missing")
	require.ErrorIs(t, err, ErrRequestNotFound)
}

func TestGenerateRecommendationsDanglingHoldingIgnored(t *testing.T) {
	// A holding pointing at an account outside the filtered set never
	// reaches the pipeline.
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{account("A1", map[string]string{"State": "NY"})},
		holdings: []models.Holding{
			holding("A1", "AAPL", 100, "150"),
			holding("GHOST", "TSLA", 5, "200"),
		},
		conditions: []models.MarketCondition{
			{Type: models.TypeSecurity, Name: "AAPL", Condition: models.ConditionPositive},
			{Type: models.TypeSecurity, Name: "TSLA", Condition: models.ConditionPositive},
		},
		requests: []models.RebalanceRequest{{RequestID: "req-1"}},
	})

	doc, err := engine.GenerateRecommendations("req-1")
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, "A1", doc.Accounts[0].AccountID)
}

func TestFilterAccounts(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{
			account("A1", map[string]string{"State": "NY", "Annual_Income": "100000"}),
			account("A2", map[string]string{"State": "NY", "Annual_Income": "40000"}),
			account("A3", map[string]string{"State": "CA", "Annual_Income": "150000"}),
		},
		requests: []models.RebalanceRequest{{
			RequestID: "req-1",
			Criteria: []models.Criterion{
				{Attribute: "state", Operator: "=", Value: "NY"},
				{Attribute: "annualIncome", Operator: ">=", Value: "50000"},
			},
		}},
	})

	result, err := engine.FilterAccounts("req-1")
	require.NoError(t, err)
	assert.Equal(t, models.FilterResult{
		RequestID:  "req-1",
		Count:      1,
		AccountIDs: []string{"A1"},
	}, result)
}

func TestFilterAllContinuesPastBadRequest(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{account("A1", map[string]string{"State": "NY"})},
		requests: []models.RebalanceRequest{
			{RequestID: "bad", Criteria: []models.Criterion{{Attribute: "state", Operator: "~=", Value: "NY"}}},
			{RequestID: "good", Criteria: []models.Criterion{{Attribute: "state", Operator: "=", Value: "NY"}}},
		},
	})

	results, errs := engine.FilterAll()
	require.Len(t, errs, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].RequestID)
	assert.Equal(t, 1, results[0].Count)
}

func TestHoldingsReport(t *testing.T) {
	engine := newTestEngine(t, &memSource{
		accounts: []models.Account{
			account("A1", map[string]string{"State": "NY"}),
			account("A2", map[string]string{"State": "NY"}),
		},
		holdings: []models.Holding{
			holding("A1", "AAPL", 100, "150"),
			holding("A1", "MSFT", 10, "400"),
		},
		requests: []models.RebalanceRequest{{
			RequestID: "req-1",
			Criteria:  []models.Criterion{{Attribute: "state", Operator: "=", Value: "NY"}},
		}},
	})

	report, err := engine.HoldingsReport("req-1")
	require.NoError(t, err)
	assert.Equal(t, 2, report.MatchedAccounts)
	require.Contains(t, report.AccountHoldings, "A1")
	assert.NotContains(t, report.AccountHoldings, "A2")

	a1 := report.AccountHoldings["A1"]
	assert.Equal(t, 2, a1.PositionCount)
	assert.True(t, a1.TotalValue.Equal(decimal.NewFromInt(19000)),
		"total = %s", a1.TotalValue)
}
