package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.50", true},
		{"650.99", "650.99", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Display() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got.Display(), err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := NewMoney(0.01).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Zero.Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{}).Validate(); err == nil {
		t.Fatalf("expected error for zero value")
	}
}

func TestMoneySumIsExact(t *testing.T) {
	sum := NewMoney(150.50).Add(NewMoney(650.99))
	if !sum.Equal(NewMoney(801.49)) {
		t.Fatalf("expected 801.49, got %s", sum.Display())
	}
}

func TestMoneyJSONAcceptsNumbersAndStrings(t *testing.T) {
	var fromNumber, fromString Money
	if err := json.Unmarshal([]byte(`150.5`), &fromNumber); err != nil {
		t.Fatalf("number: %v", err)
	}
	if err := json.Unmarshal([]byte(`"150.5"`), &fromString); err != nil {
		t.Fatalf("string: %v", err)
	}
	if !fromNumber.Equal(fromString) || fromNumber.Display() != "150.50" {
		t.Fatalf("unexpected decode: %s vs %s", fromNumber.Display(), fromString.Display())
	}
}
