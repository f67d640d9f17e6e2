package integration_test

import (
	"testing"

	"barstock/internal/core"
	"barstock/internal/integration"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(t *testing.T, table *integration.SalesTable, key string) string {
	t.Helper()
	q, ok := table.Quantity(key)
	require.True(t, ok, "missing key %q", key)
	return q.String()
}

func TestParseSales_CSV(t *testing.T) {
	text := "Coca-Cola Lata, 24\n" +
		"Red Bull;12\n" +
		"Gin Tanqueray\tGF\t3.5\n" +
		"header only\n" +
		"Absolut, n/a\n" +
		" , 9\n" +
		"Red-Bull, 15 un\n"

	table, err := integration.ParseSales(integration.FormatCSV, text)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "24", qty(t, table, "cocacolalata"))
	assert.Equal(t, "15", qty(t, table, "redbull"), "later line for the same key wins")
	assert.Equal(t, "3.5", qty(t, table, "gintanqueray"))
}

func TestParseSales_JSON(t *testing.T) {
	text := `[
		{"name": "Coca-Cola", "quantity": 10},
		{"produto": "Red Bull", "venda": "7"},
		{"product": "Gin", "qty": 0, "sales": 2},
		{"name": "", "product": "Vodka", "quantity": 0},
		{"name": "Heineken"},
		"not an object"
	]`

	table, err := integration.ParseSales(integration.FormatJSON, text)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "10", qty(t, table, "cocacola"))
	assert.Equal(t, "7", qty(t, table, "redbull"))
	assert.Equal(t, "2", qty(t, table, "gin"))

	empty, err := integration.ParseSales(integration.FormatJSON, `{"name": "Gin", "quantity": 3}`)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len(), "a non-array document imports nothing")
}

func TestParseSales_Errors(t *testing.T) {
	_, err := integration.ParseSales(integration.FormatJSON, `[{"name": "Gin", "quantity": 3`)
	assert.ErrorIs(t, err, integration.ErrMalformedInput)

	_, err = integration.ParseSales("xml", "<sales/>")
	assert.ErrorIs(t, err, integration.ErrUnknownFormat)
}

func TestMatchSales(t *testing.T) {
	items := []core.InventoryItem{
		{ID: "i1", Name: "Coca-Cola Lata", Sales: decimal.NewFromInt(1)},
		{ID: "i2", Name: "Red Bull"},
		{ID: "i3", Name: "Heineken Barril 50L"},
		{ID: "i4", Name: "Gin"},
	}
	table, err := integration.ParseSales(integration.FormatCSV,
		"coca cola lata 350ml, 30\nred bull, 12\ngin tanqueray, 4\n")
	require.NoError(t, err)

	preview := integration.MatchSales(table, items)
	require.Len(t, preview.Lines, 3)

	assert.Equal(t, "i1", preview.Lines[0].ItemID)
	assert.Equal(t, "1", preview.Lines[0].OldSales.String())
	assert.Equal(t, "30", preview.Lines[0].NewSales.String())

	m := preview.Mapping()
	assert.Equal(t, "12", m["i2"].String())
	assert.Equal(t, "4", m["i4"].String(), "key containing the item name matches")
	assert.NotContains(t, m, "i3")
}

func TestMatchSales_FirstKeyWins(t *testing.T) {
	items := []core.InventoryItem{{ID: "i1", Name: "Gin Tanqueray Sevilla"}}
	table, err := integration.ParseSales(integration.FormatCSV, "Gin, 1\nTanqueray, 2\n")
	require.NoError(t, err)

	preview := integration.MatchSales(table, items)
	require.Len(t, preview.Lines, 1)
	assert.Equal(t, "1", preview.Lines[0].NewSales.String())
}
