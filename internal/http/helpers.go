package http

import (
	"strings"

	"spendchart/internal/core"
)

type (
	chartDataset struct {
		Data            []float64 `json:"data"`
		BackgroundColor []string  `json:"backgroundColor"`
	}

	trendPayload struct {
		Labels []string  `json:"labels"`
		Data   []float64 `json:"data"`
	}

	// chartPayload is the exact shape the chart layer binds to.
	chartPayload struct {
		Labels     []string       `json:"labels"`
		Datasets   []chartDataset `json:"datasets"`
		DailyTrend trendPayload   `json:"dailyTrend"`
	}

	recentItem struct {
		Index       int        `json:"index"`
		ID          string     `json:"id,omitempty"`
		Description string     `json:"description"`
		Amount      core.Money `json:"amount"`
		Date        string     `json:"date"`
		Category    string     `json:"category"`
		Color       string     `json:"color,omitempty"`
	}

	recentPayload struct {
		Expenses []recentItem `json:"expenses"`
	}

	summaryPayload struct {
		Total         core.Money `json:"total"`
		DailyAverage  core.Money `json:"dailyAverage"`
		CategoryCount int        `json:"categoryCount"`
	}
)

func toChartPayload(cd core.ChartData) chartPayload {
	labels := make([]string, len(cd.Totals))
	data := make([]float64, len(cd.Totals))
	colors := make([]string, len(cd.Totals))
	for i, t := range cd.Totals {
		labels[i] = t.Name
		data[i] = t.Amount.Float()
		colors[i] = t.Color
	}
	trend := make([]float64, len(cd.Trend.Data))
	for i, m := range cd.Trend.Data {
		trend[i] = m.Float()
	}
	trendLabels := cd.Trend.Labels
	if trendLabels == nil {
		trendLabels = []string{}
	}
	return chartPayload{
		Labels:     labels,
		Datasets:   []chartDataset{{Data: data, BackgroundColor: colors}},
		DailyTrend: trendPayload{Labels: trendLabels, Data: trend},
	}
}

func toSummaryPayload(s core.Summary) summaryPayload {
	return summaryPayload{
		Total:         s.Total,
		DailyAverage:  s.DailyAverage,
		CategoryCount: s.CategoryCount,
	}
}

func toRecentPayload(items []core.IndexedExpense, cats core.CategorySet) recentPayload {
	out := recentPayload{Expenses: make([]recentItem, 0, len(items))}
	for _, it := range items {
		out.Expenses = append(out.Expenses, recentItem{
			Index:       it.Index,
			ID:          it.Expense.ID,
			Description: it.Expense.Description,
			Amount:      it.Expense.Amount,
			Date:        it.Expense.Date,
			Category:    it.Expense.Category,
			Color:       cats.Color(it.Expense.Category),
		})
	}
	return out
}

// sanitizeInput removes control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
