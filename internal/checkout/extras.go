package checkout

import "github.com/google/uuid"

// ExtrasSelection maps cart line ID -> addon ID -> quantity. Quantities are
// always positive: an addon reaching zero is removed, and a line with no
// addons left is removed too.
type ExtrasSelection map[string]map[uuid.UUID]int

// Quantity returns the selected quantity, zero when absent.
func (e ExtrasSelection) Quantity(lineID string, addonID uuid.UUID) int {
	return e[lineID][addonID]
}

// Adjust adds delta to the quantity and returns the new value. The result is
// clamped at zero.
func (e *ExtrasSelection) Adjust(lineID string, addonID uuid.UUID, delta int) int {
	if *e == nil {
		*e = ExtrasSelection{}
	}
	next := (*e)[lineID][addonID] + delta
	if next <= 0 {
		e.remove(lineID, addonID)
		return 0
	}
	line, ok := (*e)[lineID]
	if !ok {
		line = map[uuid.UUID]int{}
		(*e)[lineID] = line
	}
	line[addonID] = next
	return next
}

// Count is the number of (line, addon) pairs with a quantity.
func (e ExtrasSelection) Count() int {
	total := 0
	for _, line := range e {
		total += len(line)
	}
	return total
}

func (e *ExtrasSelection) remove(lineID string, addonID uuid.UUID) {
	line, ok := (*e)[lineID]
	if !ok {
		return
	}
	delete(line, addonID)
	if len(line) == 0 {
		delete(*e, lineID)
	}
}
