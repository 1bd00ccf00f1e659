package postgres

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"spendchart/internal/core"
)

func TestNumericConversionKeepsDigits(t *testing.T) {
	for _, in := range []string{"4.999", "0.005", "-3.25", "800", "0"} {
		m := core.CoerceAmount(in)
		got, err := moneyFromNumeric(numericFromMoney(m))
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !got.Equal(m) || got.Exact() != m.Exact() {
			t.Errorf("%s came back as %s", in, got.Exact())
		}
	}
}

func TestMoneyFromNumericRejectsNaN(t *testing.T) {
	if _, err := moneyFromNumeric(pgtype.Numeric{Int: big.NewInt(0), NaN: true, Valid: true}); err == nil {
		t.Error("expected error for NaN")
	}
	got, err := moneyFromNumeric(pgtype.Numeric{})
	if err != nil || !got.IsZero() {
		t.Errorf("NULL numeric = %s, %v", got.Exact(), err)
	}
}
