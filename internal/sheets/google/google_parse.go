package google

import (
	"fmt"
	"strings"

	"spendchart/internal/core"
)

var header = []string{"Index", "ID", "Date", "Description", "Category", "Amount"}

const lastColumn = "F"

// expenseRows renders the header plus one row per expense. Amount is written
// as a number so the sheet can sum it.
func expenseRows(expenses []core.Expense) [][]interface{} {
	rows := make([][]interface{}, 0, len(expenses)+1)
	h := make([]interface{}, len(header))
	for i, v := range header {
		h[i] = v
	}
	rows = append(rows, h)
	for i, e := range expenses {
		rows = append(rows, []interface{}{i, e.ID, e.Date, e.Description, e.Category, e.Amount.Float()})
	}
	return rows
}

// parseExpenseRows converts a values matrix (as returned by Sheets API) back
// into expenses. Columns are located by header name; the Index column is
// informational and row order is authoritative.
func parseExpenseRows(values [][]interface{}) ([]core.Expense, error) {
	if len(values) == 0 {
		return []core.Expense{}, nil
	}
	headers := toStrings(values[0])
	colID := indexOf(headers, "ID")
	colDate := indexOf(headers, "Date")
	colDesc := indexOf(headers, "Description")
	colCat := indexOf(headers, "Category")
	colAmount := indexOf(headers, "Amount")

	var missing []string
	for name, col := range map[string]int{"Date": colDate, "Description": colDesc, "Category": colCat, "Amount": colAmount} {
		if col == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected expenses header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	out := make([]core.Expense, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		amount, _ := parseAmount(safeGet(row, colAmount))
		out = append(out, core.Expense{
			ID:          safeGet(row, colID),
			Date:        safeGet(row, colDate),
			Description: safeGet(row, colDesc),
			Category:    safeGet(row, colCat),
			Amount:      amount,
		})
	}
	return out, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseAmount accepts the sheet's rendering of an amount, with either a
// decimal point or a decimal comma. Digits are kept as rendered.
func parseAmount(s string) (core.Money, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Money{}, false
	}
	m, err := core.ParseMoney(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return core.Money{}, false
	}
	return m, true
}
