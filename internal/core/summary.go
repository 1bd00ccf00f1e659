package core

import "time"

// DefaultTrendDays is the width of the daily trend window.
const DefaultTrendDays = 30

// DefaultRecentLimit is how many expenses the recent feed shows.
const DefaultRecentLimit = 10

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Name   string
	Color  string
	Amount Money
}

// DailyTrend is a run of consecutive calendar days, oldest first, with the
// amount spent on each.
type DailyTrend struct {
	Labels []string
	Data   []Money
}

// ChartData bundles the category totals and the daily trend computed from a
// single snapshot of the collection.
type ChartData struct {
	Totals []CategoryTotal
	Trend  DailyTrend
}

// Summary is the headline figures shown above the charts.
type Summary struct {
	Total         Money
	DailyAverage  Money
	CategoryCount int
}

// BuildSummary totals every expense, whatever its category, and spreads the
// total over days. The average is rounded to cents. CategoryCount is the
// number of configured categories, not the number in use.
func BuildSummary(expenses []Expense, cats CategorySet, days int) Summary {
	total := Sum(expenses)
	return Summary{
		Total:         total,
		DailyAverage:  total.DivInt(days).Round(2),
		CategoryCount: len(cats),
	}
}

// CategoryTotals sums amounts per configured category, in configuration
// order. Expenses whose category is not in the set contribute nothing.
func CategoryTotals(expenses []Expense, cats CategorySet) []CategoryTotal {
	out := make([]CategoryTotal, len(cats))
	pos := make(map[string]int, len(cats))
	for i, c := range cats {
		out[i] = CategoryTotal{Name: c.Name, Color: c.Color}
		pos[c.Name] = i
	}
	for _, e := range expenses {
		i, ok := pos[e.Category]
		if !ok {
			continue
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// BuildDailyTrend returns the days consecutive dates ending on today's
// calendar date (inclusive), each carrying the sum of the expenses dated that
// day. Matching is string equality on the normalised YYYY-MM-DD form.
func BuildDailyTrend(expenses []Expense, today time.Time, days int) DailyTrend {
	if days <= 0 {
		return DailyTrend{Labels: []string{}, Data: []Money{}}
	}
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	trend := DailyTrend{
		Labels: make([]string, days),
		Data:   make([]Money, days),
	}
	slot := make(map[string]int, days)
	for i := 0; i < days; i++ {
		label := midnight.AddDate(0, 0, i-(days-1)).Format(DateLayout)
		trend.Labels[i] = label
		slot[label] = i
	}
	for _, e := range expenses {
		if i, ok := slot[NormalizeDate(e.Date)]; ok {
			trend.Data[i] = trend.Data[i].Add(e.Amount)
		}
	}
	return trend
}

// RecentExpenses returns up to limit expenses, newest appended first. Index
// on each result is the position in the chronological input, so it can be
// handed straight back to a delete-by-index.
func RecentExpenses(expenses []Expense, limit int) []IndexedExpense {
	n := len(expenses)
	if limit > n {
		limit = n
	}
	if limit <= 0 {
		return []IndexedExpense{}
	}
	out := make([]IndexedExpense, 0, limit)
	for i := 0; i < limit; i++ {
		idx := n - 1 - i
		out = append(out, IndexedExpense{Index: idx, Expense: expenses[idx]})
	}
	return out
}

// Sum totals every amount in expenses.
func Sum(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
