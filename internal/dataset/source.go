package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Alias1177/Rebalancer/internal/config"
	"github.com/Alias1177/Rebalancer/models"
)

// ErrMalformedRequest means the requests file is structurally invalid:
// a request without an identifier or a criterion missing its attribute or
// operator. Malformed configuration aborts the run.
var ErrMalformedRequest = errors.New("malformed rebalance request")

// FileSource reads the input tables from flat CSV and JSON files. It
// implements models.DataSource.
type FileSource struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// NewFileSource creates a data source over the files named in cfg.
func NewFileSource(cfg *config.Config) *FileSource {
	return &FileSource{
		cfg:    cfg,
		logger: log.With().Str("component", "dataset").Logger(),
	}
}

// Accounts loads the customer accounts table. Account_ID is the only required
// column; every column, Account_ID included, lands in the attribute bag so
// criteria may reference it.
func (s *FileSource) Accounts() ([]models.Account, error) {
	header, rows, err := readCSV(s.cfg.AccountsFile)
	if err != nil {
		return nil, err
	}
	idCol := -1
	for i, name := range header {
		if name == "Account_ID" {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("%s: missing Account_ID column", s.cfg.AccountsFile)
	}

	accounts := make([]models.Account, 0, len(rows))
	for _, row := range rows {
		attrs := make(map[string]models.AttrValue, len(header))
		for i, name := range header {
			attrs[name] = models.ParseAttrValue(row[i])
		}
		accounts = append(accounts, models.Account{ID: row[idCol], Attributes: attrs})
	}
	return accounts, nil
}

// Holdings loads the customer holdings table.
func (s *FileSource) Holdings() ([]models.Holding, error) {
	header, rows, err := readCSV(s.cfg.HoldingsFile)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(s.cfg.HoldingsFile, header, "AccountID", "Ticker", "Qty", "Price", "PositionTotal")
	if err != nil {
		return nil, err
	}

	holdings := make([]models.Holding, 0, len(rows))
	for n, row := range rows {
		qty, err := strconv.Atoi(row[cols["Qty"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: parsing Qty: %w", s.cfg.HoldingsFile, n+2, err)
		}
		price, err := decimal.NewFromString(row[cols["Price"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: parsing Price: %w", s.cfg.HoldingsFile, n+2, err)
		}
		total, err := decimal.NewFromString(row[cols["PositionTotal"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: parsing PositionTotal: %w", s.cfg.HoldingsFile, n+2, err)
		}
		holdings = append(holdings, models.Holding{
			AccountID:     row[cols["AccountID"]],
			Ticker:        row[cols["Ticker"]],
			Qty:           qty,
			Price:         price,
			PositionTotal: total,
		})
	}
	return holdings, nil
}

// MarketConditions loads the sentiment table.
func (s *FileSource) MarketConditions() ([]models.MarketCondition, error) {
	header, rows, err := readCSV(s.cfg.MarketConditionsFile)
	if err != nil {
		return nil, err
	}
	cols, err := columnIndex(s.cfg.MarketConditionsFile, header, "Type", "Name", "Condition")
	if err != nil {
		return nil, err
	}

	conditions := make([]models.MarketCondition, 0, len(rows))
	for _, row := range rows {
		conditions = append(conditions, models.MarketCondition{
			Type:      models.ConditionType(row[cols["Type"]]),
			Name:      row[cols["Name"]],
			Condition: models.Condition(row[cols["Condition"]]),
		})
	}
	return conditions, nil
}

// SectorMappings loads the security-to-sector map. The sector column is
// GICS_Sector in the reference data; a plain Sector column is accepted too.
// Extra metadata columns (last close price and the like) are ignored.
func (s *FileSource) SectorMappings() ([]models.SectorMapping, error) {
	header, rows, err := readCSV(s.cfg.SectorMapFile)
	if err != nil {
		return nil, err
	}
	symbolCol, sectorCol := -1, -1
	for i, name := range header {
		switch name {
		case "Symbol":
			symbolCol = i
		case "GICS_Sector":
			sectorCol = i
		case "Sector":
			if sectorCol < 0 {
				sectorCol = i
			}
		}
	}
	if symbolCol < 0 || sectorCol < 0 {
		return nil, fmt.Errorf("%s: missing Symbol or sector column", s.cfg.SectorMapFile)
	}

	mappings := make([]models.SectorMapping, 0, len(rows))
	for _, row := range rows {
		mappings = append(mappings, models.SectorMapping{
			Symbol: row[symbolCol],
			Sector: row[sectorCol],
		})
	}
	return mappings, nil
}

// RebalanceRequests loads and validates the requests file. Identifiers are
// expected to be UUIDs; a non-UUID identifier is only warned about.
func (s *FileSource) RebalanceRequests() ([]models.RebalanceRequest, error) {
	data, err := os.ReadFile(s.cfg.RequestsFile)
	if err != nil {
		return nil, fmt.Errorf("reading requests: %w", err)
	}
	var requests []models.RebalanceRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", s.cfg.RequestsFile, ErrMalformedRequest, err)
	}
	for _, r := range requests {
		if r.RequestID == "" {
			return nil, fmt.Errorf("%s: %w: missing requestIdentifier", s.cfg.RequestsFile, ErrMalformedRequest)
		}
		if _, err := uuid.Parse(r.RequestID); err != nil {
			s.logger.Warn().Str("request_id", r.RequestID).
				Msg("Request identifier is not a UUID")
		}
		for i, c := range r.Criteria {
			if c.Attribute == "" || c.Operator == "" {
				return nil, fmt.Errorf("%s: %w: request %q criterion %d missing attribute or operator",
					s.cfg.RequestsFile, ErrMalformedRequest, r.RequestID, i)
			}
		}
	}
	return requests, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}
	return records[0], records[1:], nil
}

func columnIndex(path string, header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(required))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: missing %s column", path, name)
		}
	}
	return cols, nil
}
