package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/Rebalancer/models"
)

func TestWriteDocumentWireFormat(t *testing.T) {
	dir := t.TempDir()
	doc := models.RecommendationDocument{
		RequestID: "req-1",
		Accounts: []models.AccountTrades{{
			AccountID: "A1",
			Trades: []models.Trade{
				{Ticker: "AAPL", Qty: 100, Action: models.ActionBuy},
			},
		}},
	}

	path, err := WriteDocument(filepath.Join(dir, "output"), "trade_recommendations.json", doc)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := `{
  "requestIdentifier": "req-1",
  "accounts": [
    {
      "Account_ID": "A1",
      "trades": [
        {
          "Ticker": "AAPL",
          "Qty": 100,
          "Recommended_Trade": "BUY"
        }
      ]
    }
  ]
}`
	assert.JSONEq(t, expected, string(data))
	assert.Equal(t, expected, string(data))
}

func TestWriteDocumentCreatesOutputDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")

	path, err := WriteDocument(nested, "out.json", map[string]int{"n": 1})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "out.json"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
