package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2024-01-01":           "2024-01-01",
		" 2024-01-01 ":         "2024-01-01",
		"2024-1-5":             "2024-01-05",
		"2024-03-04T10:00:00Z": "2024-03-04",
		"yesterday":            "yesterday",
		"":                     "",
	}
	for in, want := range cases {
		if got := NormalizeDate(in); got != want {
			t.Fatalf("NormalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewExpenseCoerces(t *testing.T) {
	e := NewExpense("Coffee", "4.50", "2024-1-1", "Food")
	if e.Amount.Cents() != 450 || e.Date != "2024-01-01" || e.Category != "Food" || e.Description != "Coffee" {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if e.ID != "" {
		t.Fatalf("NewExpense must not assign an id")
	}

	bad := NewExpense("", "not a number", "soon", "Nope")
	if !bad.Amount.IsZero() || bad.Date != "soon" || bad.Category != "Nope" {
		t.Fatalf("permissive construction changed input: %+v", bad)
	}
}

func TestExpenseJSONLayout(t *testing.T) {
	b, err := json.Marshal(Expense{Description: "Coffee", Amount: Cents(450), Date: "2024-01-01", Category: "Food"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"description":"Coffee","amount":4.5,"date":"2024-01-01","category":"Food"}`
	if string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}
}

func TestExpenseEqual(t *testing.T) {
	a := Expense{ID: "x", Description: "Tea", Amount: CoerceAmount("4.5"), Date: "2024-01-01", Category: "Food"}
	b := a
	b.Amount = CoerceAmount("4.50")
	if !a.Equal(b) {
		t.Fatalf("4.5 and 4.50 should compare equal")
	}
	b.Amount = CoerceAmount("4.501")
	if a.Equal(b) {
		t.Fatalf("sub-cent difference should not compare equal")
	}
	b = a
	b.ID = ""
	if a.Equal(b) {
		t.Fatalf("id difference should not compare equal")
	}
}

func TestParseCategorySet(t *testing.T) {
	cs, err := ParseCategorySet("Rent:#111111, Fun ,Food:#222222")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(cs.Names(), ",") != "Rent,Fun,Food" {
		t.Fatalf("unexpected names: %v", cs.Names())
	}
	if cs.Color("Fun") == "" || cs.Color("Rent") != "#111111" {
		t.Fatalf("unexpected colors: %v", cs.Colors())
	}
	if cs.Contains("Travel") {
		t.Fatalf("unexpected membership")
	}

	for _, bad := range []string{"", " , ", ":#fff", "A,A"} {
		if _, err := ParseCategorySet(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestDefaultCategories(t *testing.T) {
	cs := DefaultCategories()
	want := "Food,Transport,Entertainment,Utilities,Shopping,Healthcare,Other"
	if strings.Join(cs.Names(), ",") != want {
		t.Fatalf("unexpected defaults: %v", cs.Names())
	}
	if len(cs.Colors()) != 7 {
		t.Fatalf("expected 7 colors")
	}
}

func TestRemoveAt(t *testing.T) {
	in := []Expense{{Description: "a"}, {Description: "b"}, {Description: "c"}}
	out, removed, err := RemoveAt(in, 1)
	if err != nil || removed.Description != "b" {
		t.Fatalf("unexpected remove: %+v err=%v", removed, err)
	}
	if len(out) != 2 || out[0].Description != "a" || out[1].Description != "c" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if in[1].Description != "b" {
		t.Fatalf("input slice was modified")
	}
	for _, idx := range []int{-1, 3} {
		if _, _, err := RemoveAt(in, idx); err != ErrInvalidIndex {
			t.Fatalf("index %d: expected ErrInvalidIndex, got %v", idx, err)
		}
	}
}

func TestIndexOfID(t *testing.T) {
	in := []Expense{{ID: ""}, {ID: "x"}, {ID: "y"}}
	if IndexOfID(in, "y") != 2 || IndexOfID(in, "z") != -1 || IndexOfID(in, "") != -1 {
		t.Fatalf("unexpected lookup results")
	}
}
