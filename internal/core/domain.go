package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used on the wire and on disk.
const DateLayout = "2006-01-02"

type (
	// Expense is one recorded spending event. Its delete key is its position
	// in the persisted sequence; ID is only set on records created by this
	// service and stays empty for legacy rows.
	Expense struct {
		ID          string `json:"id,omitempty"`
		Description string `json:"description"`
		Amount      Money  `json:"amount"`
		Date        string `json:"date"`
		Category    string `json:"category"`
	}

	// IndexedExpense pairs an expense with its chronological position in the
	// full collection.
	IndexedExpense struct {
		Index   int
		Expense Expense
	}

	Category struct {
		Name  string
		Color string
	}

	// CategorySet is the ordered, fixed list of categories the aggregates
	// report on. Order drives the order of CategoryTotals output.
	CategorySet []Category
)

var (
	ErrInvalidIndex    = errors.New("invalid index")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrEmptyCategories = errors.New("empty category set")
)

// Equal reports whether two expenses carry the same fields. Amounts are
// compared by value, so 4.5 and 4.50 are equal.
func (e Expense) Equal(o Expense) bool {
	return e.ID == o.ID &&
		e.Description == o.Description &&
		e.Amount.Equal(o.Amount) &&
		e.Date == o.Date &&
		e.Category == o.Category
}

// DefaultCategories returns the stock seven categories and their chart colours.
func DefaultCategories() CategorySet {
	return CategorySet{
		{Name: "Food", Color: "#FF6384"},
		{Name: "Transport", Color: "#36A2EB"},
		{Name: "Entertainment", Color: "#FFCE56"},
		{Name: "Utilities", Color: "#4BC0C0"},
		{Name: "Shopping", Color: "#9966FF"},
		{Name: "Healthcare", Color: "#FF9F40"},
		{Name: "Other", Color: "#8AC24A"},
	}
}

// ParseCategorySet parses "Name:#color,Name:#color". A missing colour falls
// back to a neutral grey.
func ParseCategorySet(s string) (CategorySet, error) {
	var out CategorySet
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, color, _ := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		color = strings.TrimSpace(color)
		if name == "" {
			return nil, fmt.Errorf("category entry %q has no name", part)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = struct{}{}
		if color == "" {
			color = "#C9CBCF"
		}
		out = append(out, Category{Name: name, Color: color})
	}
	if len(out) == 0 {
		return nil, ErrEmptyCategories
	}
	return out, nil
}

func (cs CategorySet) Names() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func (cs CategorySet) Colors() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Color
	}
	return out
}

// Contains reports whether name is one of the configured categories.
func (cs CategorySet) Contains(name string) bool {
	return cs.indexOf(name) >= 0
}

// Color returns the configured colour for name, or "" for unknown categories.
func (cs CategorySet) Color(name string) string {
	if i := cs.indexOf(name); i >= 0 {
		return cs[i].Color
	}
	return ""
}

func (cs CategorySet) indexOf(name string) int {
	for i, c := range cs {
		if c.Name == name {
			return i
		}
	}
	return -1
}

var dateLayouts = []string{DateLayout, "2006-1-2", time.RFC3339}

// NormalizeDate rewrites anything that parses as a calendar date into
// YYYY-MM-DD. Unparseable input is returned trimmed but otherwise verbatim.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// NewExpense builds an expense from raw form values. Nothing is rejected:
// the amount is coerced and the date normalised when possible.
func NewExpense(description, amount, date, category string) Expense {
	return Expense{
		Description: description,
		Amount:      CoerceAmount(amount),
		Date:        NormalizeDate(date),
		Category:    category,
	}
}
