package migrate

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Migration is one forward schema transformation. Seq values are unique and
// strictly increasing across the registry; there is no down transformation.
// Structural marks steps that rewrite a table in place and therefore run
// with foreign-key enforcement suspended on the migration connection.
type Migration struct {
	Seq        int
	Name       string
	Structural bool
	Run        func(ctx context.Context, tx *sqlx.Tx) error
}

// Registered returns the ordered, immutable list of schema migrations.
func Registered() []Migration {
	return []Migration{
		{Seq: 1, Name: "create_chart", Run: createChart},
		{Seq: 2, Name: "create_account", Run: createAccount},
		{Seq: 3, Name: "create_journal", Run: createJournal},
		{Seq: 4, Name: "widen_chart_type_check", Structural: true, Run: widenChartTypeCheck},
		{Seq: 5, Name: "account_opening_balance", Run: accountOpeningBalance},
	}
}
