package decision

import (
	"github.com/Alias1177/Rebalancer/models"
)

// Decide maps a resolved market condition to the recommended trade for one
// holding. The mapping is business policy and lives only here:
//
//	Positive -> BUY, trade size = current quantity (double the position)
//	Negative -> SELL, trade size = current quantity (full liquidation)
//	Neutral  -> HOLD, no transaction
//	no data  -> NO_DATA, no transaction
//
// hasData is false when sentiment resolution found nothing at either tier; a
// condition value outside the known set is treated the same way.
func Decide(holding models.Holding, condition models.Condition, hasData bool) models.Trade {
	trade := models.Trade{Ticker: holding.Ticker}
	if !hasData {
		trade.Action = models.ActionNoData
		return trade
	}
	switch condition {
	case models.ConditionPositive:
		trade.Action = models.ActionBuy
		trade.Qty = holding.Qty
	case models.ConditionNegative:
		trade.Action = models.ActionSell
		trade.Qty = holding.Qty
	case models.ConditionNeutral:
		trade.Action = models.ActionHold
	default:
		trade.Action = models.ActionNoData
	}
	return trade
}
