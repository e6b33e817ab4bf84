package criteria

import (
	"fmt"

	"github.com/Alias1177/Rebalancer/models"
)

// attributeColumns maps the camelCase attribute names used in rebalance
// requests to the column names of the accounts table. Unknown attribute names
// pass through unchanged.
var attributeColumns = map[string]string{
	"timeHorizon":          "Time_Horizon",
	"riskTolerance":        "Risk_Tolerance",
	"state":                "State",
	"age":                  "Age",
	"maritalStatus":        "Marital_Status",
	"dependents":           "Dependents",
	"clientIndustry":       "Client_Industry",
	"residencyZip":         "Residency_Zip",
	"accountStatus":        "Account_Status",
	"annualIncome":         "Annual_Income",
	"liquidityNeeds":       "Liquidity_Needs",
	"investmentExperience": "Investment_Experience",
	"investmentGoals":      "Investment_Goals",
	"exclusions":           "Exclusions",
	"sriPreferences":       "SRI_Preferences",
	"taxStatus":            "Tax_Status",
	"accountId":            "Account_ID",
}

// MapAttribute translates a request attribute name to its account column name.
func MapAttribute(attribute string) string {
	if column, ok := attributeColumns[attribute]; ok {
		return column
	}
	return attribute
}

// ValidateCriteria checks every criterion's operator before any account is
// evaluated, so a malformed request never produces partial results.
func ValidateCriteria(criteria []models.Criterion) error {
	for _, c := range criteria {
		if !ValidOperator(c.Operator) {
			return fmt.Errorf("criterion %q: %w: %q", c.Attribute, ErrUnsupportedOperator, c.Operator)
		}
	}
	return nil
}

// Filter returns the accounts satisfying every criterion, preserving the input
// order. An empty criteria list matches all accounts. An account missing a
// referenced attribute fails that predicate, it is not an error.
func Filter(accounts []models.Account, criteria []models.Criterion) ([]models.Account, error) {
	if err := ValidateCriteria(criteria); err != nil {
		return nil, err
	}
	if len(criteria) == 0 {
		out := make([]models.Account, len(accounts))
		copy(out, accounts)
		return out, nil
	}

	matched := make([]models.Account, 0, len(accounts))
	for _, account := range accounts {
		ok, err := matchesAll(account, criteria)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, account)
		}
	}
	return matched, nil
}

func matchesAll(account models.Account, criteria []models.Criterion) (bool, error) {
	for _, c := range criteria {
		value, present := account.Attributes[MapAttribute(c.Attribute)]
		if !present {
			return false, nil
		}
		ok, err := Matches(value, c.Operator, c.Value)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
