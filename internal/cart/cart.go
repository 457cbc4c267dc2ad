// Package cart models the customer's cart as handed to checkout.
package cart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/money"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// Line is one distinct item/size/options combination in the cart.
type Line struct {
	ID           string              `json:"id"`
	ItemID       string              `json:"item_id"`
	Title        types.LocalizedText `json:"title"`
	Price        decimal.Decimal     `json:"price"`
	Size         string              `json:"size,omitempty"`
	Quantity     int                 `json:"quantity"`
	Notes        string              `json:"notes,omitempty"`
	Category     string              `json:"category,omitempty"`
	CategoryType enums.AddonType     `json:"category_type,omitempty"`
	OptionIDs    []string            `json:"option_ids,omitempty"`
}

// Total is unit price times quantity.
func (l Line) Total() decimal.Decimal {
	return money.Times(l.Price, l.Quantity)
}

// LineID builds the composite identity itemID|size|sorted(optionIDs).
func LineID(itemID, size string, optionIDs []string) string {
	opts := make([]string, 0, len(optionIDs))
	for _, id := range optionIDs {
		if id = strings.TrimSpace(id); id != "" {
			opts = append(opts, id)
		}
	}
	sort.Strings(opts)
	return strings.TrimSpace(itemID) + "|" + strings.TrimSpace(size) + "|" + strings.Join(opts, ",")
}

// Cart is an ordered list of lines with unique IDs.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add validates the line and merges it into an existing line with the same ID.
// A merge keeps both notes and refuses a line priced differently.
func (c *Cart) Add(line Line) error {
	if err := validateLine(line); err != nil {
		return err
	}
	line.ID = LineID(line.ItemID, line.Size, line.OptionIDs)
	line.Notes = strings.TrimSpace(line.Notes)
	if idx := c.index(line.ID); idx >= 0 {
		existing := &c.Lines[idx]
		if !existing.Price.Equal(line.Price) {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "line %q priced %s conflicts with existing price %s", line.ID, line.Price, existing.Price)
		}
		existing.Quantity += line.Quantity
		existing.Notes = joinNotes(existing.Notes, line.Notes)
		return nil
	}
	c.Lines = append(c.Lines, line)
	return nil
}

// Increment raises the quantity of a line by one.
func (c *Cart) Increment(lineID string) error {
	idx := c.index(lineID)
	if idx < 0 {
		return lineNotFound(lineID)
	}
	c.Lines[idx].Quantity++
	return nil
}

// Decrement lowers the quantity of a line by one and drops it at zero.
func (c *Cart) Decrement(lineID string) error {
	idx := c.index(lineID)
	if idx < 0 {
		return lineNotFound(lineID)
	}
	c.Lines[idx].Quantity--
	if c.Lines[idx].Quantity <= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	}
	return nil
}

// Remove drops a line regardless of quantity.
func (c *Cart) Remove(lineID string) error {
	idx := c.index(lineID)
	if idx < 0 {
		return lineNotFound(lineID)
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.Lines = nil
}

// Find returns the line with the given ID.
func (c Cart) Find(lineID string) (Line, bool) {
	if idx := c.index(lineID); idx >= 0 {
		return c.Lines[idx], true
	}
	return Line{}, false
}

// Subtotal sums price times quantity over all lines.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Total())
	}
	return total
}

// ItemCount sums quantities.
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) index(lineID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// FromLines builds a cart from an incoming payload, merging duplicates.
func FromLines(lines []Line) (Cart, error) {
	if len(lines) == 0 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	var c Cart
	for i, line := range lines {
		if err := c.Add(line); err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				return Cart{}, pkgerrors.New(typed.Code(), fmt.Sprintf("lines[%d]: %s", i, typed.Message()))
			}
			return Cart{}, err
		}
	}
	return c, nil
}

func validateLine(line Line) error {
	switch {
	case strings.TrimSpace(line.ItemID) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	case line.Title.IsZero():
		return pkgerrors.New(pkgerrors.CodeValidation, "item title is required")
	case line.Quantity < 1:
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	case line.Price.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	case line.CategoryType != "" && !line.CategoryType.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category type %q", line.CategoryType))
	}
	return nil
}

func joinNotes(current, extra string) string {
	if current == "" {
		return extra
	}
	if extra == "" {
		return current
	}
	for _, note := range strings.Split(current, "; ") {
		if note == extra {
			return current
		}
	}
	return current + "; " + extra
}

func lineNotFound(lineID string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("cart line %q not found", lineID))
}
