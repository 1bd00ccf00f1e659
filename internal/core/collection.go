package core

// RemoveAt returns a copy of expenses without the element at index, plus the
// removed element. The input slice is never modified.
func RemoveAt(expenses []Expense, index int) ([]Expense, Expense, error) {
	if index < 0 || index >= len(expenses) {
		return expenses, Expense{}, ErrInvalidIndex
	}
	removed := expenses[index]
	out := make([]Expense, 0, len(expenses)-1)
	out = append(out, expenses[:index]...)
	out = append(out, expenses[index+1:]...)
	return out, removed, nil
}

// IndexOfID returns the chronological position of the expense with the given
// ID, or -1. Empty IDs never match.
func IndexOfID(expenses []Expense, id string) int {
	if id == "" {
		return -1
	}
	for i, e := range expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}
