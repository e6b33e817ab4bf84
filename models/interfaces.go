package models

// DataSource supplies the input tables for one pipeline run. Implementations
// must return fully loaded, immutable snapshots.
type DataSource interface {
	Accounts() ([]Account, error)
	Holdings() ([]Holding, error)
	MarketConditions() ([]MarketCondition, error)
	SectorMappings() ([]SectorMapping, error)
	RebalanceRequests() ([]RebalanceRequest, error)
}
