package cli

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"barstock/internal/app"
	"barstock/internal/core"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, ledger *core.Ledger, stdin string, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var out bytes.Buffer
	env := &Env{
		Svc:      app.NewAppService(ledger, nil, nil, nil),
		Out:      &out,
		In:       strings.NewReader(stdin),
		Currency: "BRL",
		Style:    "notty",
	}
	fs := flag.NewFlagSet("barstock", flag.ContinueOnError)
	c := subcommands.NewCommander(fs, "barstock")
	Register(c, env)
	require.NoError(t, fs.Parse(args))
	return c.Execute(context.Background()), out.String()
}

func TestImport_PreviewDoesNotApply(t *testing.T) {
	ledger := core.NewSeededLedger()
	status, out := run(t, ledger, "Red Bull;40\n", "import", "-format", "csv")

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "Parsed 1 product(s); 1 item(s) matched.")
	assert.NotContains(t, out, "Applied.")
	for _, it := range ledger.Central().Items {
		if it.Name == "Red Bull" {
			assert.True(t, it.Sales.IsZero())
		}
	}
}

func TestImport_Commit(t *testing.T) {
	ledger := core.NewSeededLedger()
	status, out := run(t, ledger, "Red Bull;40\n", "import", "-commit")

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "Applied. Estoque Geral revenue is now")
	var found bool
	for _, it := range ledger.Central().Items {
		if it.Name == "Red Bull" {
			found = true
			assert.Equal(t, "40", it.Sales.String())
		}
	}
	assert.True(t, found)
}

func TestImport_BadFormat(t *testing.T) {
	status, _ := run(t, core.NewSeededLedger(), "x", "import", "-format", "xml")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestReport(t *testing.T) {
	status, out := run(t, core.NewSeededLedger(), "", "report", "-sort", "name", "-asc")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "Financial report")
	assert.Contains(t, out, "Red Bull")
}

func TestReport_UnknownSort(t *testing.T) {
	status, _ := run(t, core.NewSeededLedger(), "", "report", "-sort", "bogus")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestReport_JSON(t *testing.T) {
	status, out := run(t, core.NewSeededLedger(), "", "report", "-json")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"Products"`)
}

func TestDashboardAndPurchases(t *testing.T) {
	status, out := run(t, core.NewSeededLedger(), "", "dashboard")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "Dashboard")

	status, out = run(t, core.NewSeededLedger(), "", "purchases")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "No purchases recorded.")
}

func TestAudit_FallbackWithoutProvider(t *testing.T) {
	status, out := run(t, core.NewSeededLedger(), "", "audit")
	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "System Error")
}

func TestAudit_UnknownLocation(t *testing.T) {
	status, _ := run(t, core.NewSeededLedger(), "", "audit", "-location", "nope")
	assert.Equal(t, subcommands.ExitFailure, status)
}
