package google

import (
	"fmt"

	"finsafe/internal/core"
)

const lastColumn = "G"

var headerRow = []any{"Observed", "User ID", "Name", "Email", "Net Balance", "Minimum", "Shortfall"}

// alertRow lays out a as one sheet row in headerRow order. Amounts are
// plain two-decimal strings so USER_ENTERED parses them as numbers.
func alertRow(a core.BalanceAlert) []any {
	return []any{
		a.ObservedAt.UTC().Format("2006-01-02 15:04:05"),
		a.UserID,
		a.UserName,
		a.Email,
		core.FormatPlain(a.NetBalance),
		core.FormatPlain(a.MinBalance),
		core.FormatPlain(a.MinBalance - a.NetBalance),
	}
}

func rowRange(sheet string, from, to int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, from, lastColumn, to)
}
