package sentiment

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Rebalancer/models"
)

// Resolver answers "what is the market outlook for this ticker" with a
// two-tier lookup: the security-level condition is authoritative, and a
// sector-level condition reached through the ticker's sector mapping is the
// only fallback. There is no third tier.
type Resolver struct {
	securities     map[string]models.Condition
	sectors        map[string]models.Condition
	sectorByTicker map[string]string
	logger         zerolog.Logger
}

// NewResolver indexes the market condition and sector mapping tables once.
// On duplicate (Type, Name) keys the last row wins.
func NewResolver(conditions []models.MarketCondition, mappings []models.SectorMapping) *Resolver {
	r := &Resolver{
		securities:     make(map[string]models.Condition, len(conditions)),
		sectors:        make(map[string]models.Condition),
		sectorByTicker: make(map[string]string, len(mappings)),
		logger:         log.With().Str("component", "sentiment").Logger(),
	}
	for _, c := range conditions {
		switch c.Type {
		case models.TypeSecurity:
			r.securities[c.Name] = c.Condition
		case models.TypeSector:
			r.sectors[c.Name] = c.Condition
		default:
			r.logger.Warn().Str("type", string(c.Type)).Str("name", c.Name).
				Msg("Ignoring market condition row with unknown type")
		}
	}
	for _, m := range mappings {
		r.sectorByTicker[m.Symbol] = m.Sector
	}
	return r
}

// Resolve returns the condition for a ticker. The second return value is
// false when neither a security-level condition nor a resolvable sector-level
// condition exists.
func (r *Resolver) Resolve(ticker string) (models.Condition, bool) {
	if condition, ok := r.securities[ticker]; ok {
		return condition, true
	}
	sector, ok := r.sectorByTicker[ticker]
	if !ok {
		return "", false
	}
	condition, ok := r.sectors[sector]
	if !ok {
		return "", false
	}
	return condition, true
}
