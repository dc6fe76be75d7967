package core

import (
	"errors"
	"strings"
	"testing"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"Food", Food, true},
		{"  shopping ", Shopping, true},
		{"ENTERTAINMENT", Entertainment, true},
		{"Groceries", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrInvalidCategory) {
			t.Fatalf("%q expected ErrInvalidCategory, got %v", tc.in, err)
		}
	}
}

func TestCategoriesCanonicalOrder(t *testing.T) {
	got := Categories()
	want := []Category{Food, Transport, Housing, Entertainment, Bills, Shopping, Other}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	// Mutating the returned slice must not leak into the package set.
	got[0] = "Mutated"
	if Categories()[0] != Food {
		t.Fatalf("Categories returned shared backing array")
	}
}

func TestParsePeriodType(t *testing.T) {
	if p, err := ParsePeriodType("Monthly"); err != nil || p != Monthly {
		t.Fatalf("expected monthly, got %q (err=%v)", p, err)
	}
	if p, err := ParsePeriodType("weekly"); err != nil || p != Weekly {
		t.Fatalf("expected weekly, got %q (err=%v)", p, err)
	}
	if _, err := ParsePeriodType("yearly"); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:          "e1",
		Amount:      NewMoney(12.5),
		Category:    Food,
		Description: "lunch",
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name string
		e    Expense
		want error
	}{
		{"empty id", Expense{ID: " ", Amount: NewMoney(1), Category: Food, Date: NewDate(2025, 1, 1)}, ErrEmptyID},
		{"zero amount", Expense{ID: "a", Amount: Zero, Category: Food, Date: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{"negative amount", Expense{ID: "a", Amount: NewMoney(-3), Category: Food, Date: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{"unknown category", Expense{ID: "a", Amount: NewMoney(1), Category: "Pets", Date: NewDate(2025, 1, 1)}, ErrInvalidCategory},
		{"zero date", Expense{ID: "a", Amount: NewMoney(1), Category: Food}, ErrInvalidDate},
		{"long description", Expense{ID: "a", Amount: NewMoney(1), Category: Food, Date: NewDate(2025, 1, 1), Description: strings.Repeat("x", 201)}, ErrDescriptionTooLong},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.e.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestExpenseNormalizeTrims(t *testing.T) {
	e := Expense{ID: " e1 ", Description: "  coffee \n"}.Normalize()
	if e.ID != "e1" || e.Description != "coffee" {
		t.Fatalf("unexpected normalize result: %+v", e)
	}
}
