package models

import (
	"github.com/shopspring/decimal"
)

// Condition classifies the market outlook for a security or a sector.
type Condition string

const (
	ConditionPositive Condition = "Positive"
	ConditionNegative Condition = "Negative"
	ConditionNeutral  Condition = "Neutral"
)

// ConditionType says which level a market condition row applies to.
type ConditionType string

const (
	TypeSecurity ConditionType = "Security"
	TypeSector   ConditionType = "Sector"
)

// Action is the recommended trade for a single holding.
type Action string

const (
	ActionBuy    Action = "BUY"
	ActionSell   Action = "SELL"
	ActionHold   Action = "HOLD"
	ActionNoData Action = "NO_DATA"
)

// AttrValue is one account attribute. Account columns carry strings, integers
// and decimals with no schema, so every value keeps its raw text plus a parsed
// numeric form when the text is a valid number.
type AttrValue struct {
	Raw     string
	Num     decimal.Decimal
	Numeric bool
}

// ParseAttrValue builds an AttrValue from raw column text.
func ParseAttrValue(raw string) AttrValue {
	if num, err := decimal.NewFromString(raw); err == nil {
		return AttrValue{Raw: raw, Num: num, Numeric: true}
	}
	return AttrValue{Raw: raw}
}

// Account is one customer account: an identifier plus an open attribute bag.
// Accounts are immutable once loaded.
type Account struct {
	ID         string
	Attributes map[string]AttrValue
}

// Holding is one position owned by an account. PositionTotal is trusted as
// given, never recomputed.
type Holding struct {
	AccountID     string
	Ticker        string
	Qty           int
	Price         decimal.Decimal
	PositionTotal decimal.Decimal
}

// MarketCondition is one sentiment row, keyed by (Type, Name).
type MarketCondition struct {
	Type      ConditionType
	Name      string
	Condition Condition
}

// SectorMapping ties a ticker symbol to its sector.
type SectorMapping struct {
	Symbol string
	Sector string
}

// Criterion is one (attribute, operator, value) filter condition. Attribute
// names arrive in the request's camelCase form.
type Criterion struct {
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
}

// RebalanceRequest selects the accounts to rebalance. Criteria are evaluated
// as a conjunction: an account matches only when every criterion holds.
type RebalanceRequest struct {
	RequestID string      `json:"requestIdentifier"`
	Criteria  []Criterion `json:"accountRebalanceCriterias"`
}

// Trade is one recommended transaction in the output document. Qty is the
// trade size, not the post-trade position.
type Trade struct {
	Ticker string `json:"Ticker"`
	Qty    int    `json:"Qty"`
	Action Action `json:"Recommended_Trade"`
}

// AccountTrades groups the recommended trades for one account.
type AccountTrades struct {
	AccountID string  `json:"Account_ID"`
	Trades    []Trade `json:"trades"`
}

// RecommendationDocument is the output of one pipeline run, keyed by the
// request identifier echoed verbatim.
type RecommendationDocument struct {
	RequestID string          `json:"requestIdentifier"`
	Accounts  []AccountTrades `json:"accounts"`
}

// FilterResult reports the accounts matched by one request's criteria.
type FilterResult struct {
	RequestID  string   `json:"requestIdentifier"`
	Count      int      `json:"count"`
	AccountIDs []string `json:"accounts"`
}

// Position is one holding row in the holdings report.
type Position struct {
	Ticker        string          `json:"Ticker"`
	Qty           int             `json:"Qty"`
	Price         decimal.Decimal `json:"Price"`
	PositionTotal decimal.Decimal `json:"PositionTotal"`
}

// AccountHoldings summarizes one matched account's positions.
type AccountHoldings struct {
	Positions     []Position      `json:"positions"`
	TotalValue    decimal.Decimal `json:"total_value"`
	PositionCount int             `json:"position_count"`
}

// HoldingsReport lists the holdings of every account matched by a request.
type HoldingsReport struct {
	RequestID       string                     `json:"request_id"`
	MatchedAccounts int                        `json:"matched_accounts"`
	AccountHoldings map[string]AccountHoldings `json:"account_holdings"`
}
