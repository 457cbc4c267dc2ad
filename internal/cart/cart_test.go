package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

func burger(qty int) Line {
	return Line{
		ItemID:       "burger",
		Title:        types.LocalizedText{En: "Burger"},
		Price:        decimal.NewFromInt(25),
		Size:         "large",
		Quantity:     qty,
		CategoryType: enums.AddonTypeSavory,
	}
}

func TestLineIDSortsOptions(t *testing.T) {
	a := LineID("burger", "large", []string{"b", "a", " "})
	b := LineID("burger", "large", []string{"a", "b"})
	if a != b || a != "burger|large|a,b" {
		t.Fatalf("unexpected line ids %q %q", a, b)
	}
	if LineID("burger", "", nil) != "burger||" {
		t.Fatalf("unexpected id without size")
	}
}

func TestAddMergesEqualLines(t *testing.T) {
	var c Cart
	if err := c.Add(burger(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(burger(2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(c.Lines) != 1 || c.Lines[0].Quantity != 3 {
		t.Fatalf("expected merged line with qty 3, got %+v", c.Lines)
	}
	if !c.Subtotal().Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected subtotal %s", c.Subtotal())
	}

	other := burger(1)
	other.Size = "small"
	if err := c.Add(other); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(c.Lines) != 2 || c.ItemCount() != 4 {
		t.Fatalf("expected two lines and four items, got %d lines %d items", len(c.Lines), c.ItemCount())
	}
}

func TestAddMergeKeepsNotesAndChecksPrice(t *testing.T) {
	var c Cart
	first := burger(1)
	first.Notes = "no onions"
	if err := c.Add(first); err != nil {
		t.Fatalf("add: %v", err)
	}

	second := burger(1)
	second.Notes = " extra sauce "
	if err := c.Add(second); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(first); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := c.Lines[0].Notes; got != "no onions; extra sauce" {
		t.Fatalf("unexpected merged notes %q", got)
	}
	if c.Lines[0].Quantity != 3 {
		t.Fatalf("expected qty 3, got %d", c.Lines[0].Quantity)
	}

	repriced := burger(1)
	repriced.Price = decimal.NewFromInt(30)
	if err := c.Add(repriced); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for price mismatch, got %v", err)
	}
	if c.Lines[0].Quantity != 3 || !c.Subtotal().Equal(decimal.NewFromInt(75)) {
		t.Fatalf("rejected line must not change the cart, got %+v", c.Lines)
	}
}

func TestDecrementRemovesAtZero(t *testing.T) {
	var c Cart
	_ = c.Add(burger(1))
	id := c.Lines[0].ID

	if err := c.Increment(id); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := c.Decrement(id); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if line, ok := c.Find(id); !ok || line.Quantity != 1 {
		t.Fatalf("expected qty 1, got %+v ok=%v", line, ok)
	}
	if err := c.Decrement(id); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected line removed at zero, got %+v", c.Lines)
	}
	if err := c.Decrement(id); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	var c Cart
	_ = c.Add(burger(2))
	if err := c.Remove(c.Lines[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatal("expected empty cart")
	}
	_ = c.Add(burger(2))
	c.Clear()
	if !c.Subtotal().IsZero() {
		t.Fatal("expected zero subtotal after clear")
	}
}

func TestFromLinesValidation(t *testing.T) {
	if _, err := FromLines(nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}

	cases := map[string]func(*Line){
		"missing item":  func(l *Line) { l.ItemID = " " },
		"missing title": func(l *Line) { l.Title = types.LocalizedText{} },
		"zero qty":      func(l *Line) { l.Quantity = 0 },
		"negative":      func(l *Line) { l.Price = decimal.NewFromInt(-1) },
		"bad type":      func(l *Line) { l.CategoryType = "spicy" },
	}
	for name, mutate := range cases {
		line := burger(1)
		mutate(&line)
		_, err := FromLines([]Line{line})
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}

	c, err := FromLines([]Line{burger(1), burger(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Lines) != 1 || c.Lines[0].ID != "burger|large|" {
		t.Fatalf("expected merged line, got %+v", c.Lines)
	}
}
