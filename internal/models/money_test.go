package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyRoundsToTwoDecimals(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(3.456))
	if got := m.String(); got != "3.46" {
		t.Fatalf("String = %s, want 3.46", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(35))
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"35.00"` {
		t.Fatalf("marshal = %s, want \"35.00\"", b)
	}

	var fromString Money
	if err := json.Unmarshal([]byte(`"12.5"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if !fromString.Decimal.Equal(decimal.NewFromFloat(12.5)) {
		t.Fatalf("unmarshal string = %s", fromString.Decimal)
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`12.5`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if !fromNumber.Decimal.Equal(decimal.NewFromFloat(12.5)) {
		t.Fatalf("unmarshal number = %s", fromNumber.Decimal)
	}
}
