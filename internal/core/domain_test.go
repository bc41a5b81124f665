package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected invalid date, got %v", i, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 5 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.String() != "2024-03-05" {
		t.Fatalf("unexpected string %q", d.String())
	}

	for _, in := range []string{"", "2024-13-01", "05/03/2024", "yesterday"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected invalid date, got %v", in, err)
		}
	}
}

func TestDateIn(t *testing.T) {
	d := NewDate(2024, 3, 20)
	if !d.In(3, 2024) {
		t.Fatalf("expected date in 3/2024")
	}
	if d.In(4, 2024) || d.In(3, 2025) {
		t.Fatalf("date matched the wrong period")
	}
	if (Date{}).In(1, 1) {
		t.Fatalf("zero date must never match a period")
	}
}

func TestCategoryInputValidate(t *testing.T) {
	good := CategoryInput{Name: "Ăn sáng", Group: GroupFood, Color: "#22c55e"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		in   CategoryInput
		want error
	}{
		{CategoryInput{Name: "  ", Group: GroupFood}, ErrEmptyName},
		{CategoryInput{Name: "x", Group: "Food"}, ErrInvalidGroup},
		{CategoryInput{Name: "x", Group: GroupAll}, ErrInvalidGroup},
		{CategoryInput{Name: "x", Group: GroupFood, BaselineAmount: -1}, ErrNegativeAmount},
	}
	for i, tc := range bads {
		err := tc.in.Validate()
		if !errors.Is(err, tc.want) || !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestItemInputValidate(t *testing.T) {
	good := ItemInput{Title: "Bánh mì", Amount: 0, Date: NewDate(2024, 3, 5)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (ItemInput{Title: "", Amount: 1, Date: NewDate(2024, 3, 5)}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected empty title, got %v", err)
	}
	if err := (ItemInput{Title: "a", Amount: -1, Date: NewDate(2024, 3, 5)}).Validate(); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected negative amount, got %v", err)
	}
	if err := (ItemInput{Title: "a", Amount: 1}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
}

func TestCategoryClone(t *testing.T) {
	c := Category{ID: "1", Items: []ExpenseItem{{ID: "a", Amount: 1}}}
	cp := c.Clone()
	cp.Items[0].Amount = 99
	if c.Items[0].Amount != 1 {
		t.Fatalf("clone shares item storage")
	}
	if !c.HasItem("a") || c.HasItem("b") {
		t.Fatalf("HasItem mismatch")
	}
}

func TestParseGroup(t *testing.T) {
	cases := []struct {
		in   string
		want Group
		ok   bool
	}{
		{"", GroupAll, true},
		{"all", GroupAll, true},
		{"Tất cả", GroupAll, true},
		{"FOOD", GroupFood, true},
		{"Ăn uống", GroupFood, true},
		{"giải trí", GroupEntertainment, true},
		{"groceries", "", false},
	}
	for _, tc := range cases {
		got, err := ParseGroup(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidGroup) {
			t.Fatalf("%q expected invalid group, got %v", tc.in, err)
		}
	}
	if GroupLiving.Key() != "living" {
		t.Fatalf("unexpected key %q", GroupLiving.Key())
	}
}

func TestQueryValidate(t *testing.T) {
	years := DefaultYearRange
	cases := []struct {
		q    Query
		want error
	}{
		{Query{Month: 3, Year: 2024}, nil},
		{Query{Month: 12, Year: 2027, Group: GroupShopping}, nil},
		{Query{Month: 1, Year: 2025, Group: GroupAll}, nil},
		{Query{Month: 0, Year: 2024}, ErrInvalidMonth},
		{Query{Month: 13, Year: 2024}, ErrInvalidMonth},
		{Query{Month: 1, Year: 2023}, ErrInvalidYear},
		{Query{Month: 1, Year: 2028}, ErrInvalidYear},
		{Query{Month: 1, Year: 2024, Group: "nope"}, ErrInvalidGroup},
	}
	for i, tc := range cases {
		err := tc.q.Validate(years)
		if tc.want == nil && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
	if got := years.Years(); len(got) != 4 || got[0] != 2024 || got[3] != 2027 {
		t.Fatalf("unexpected years %v", got)
	}
}
