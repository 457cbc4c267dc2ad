package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemExtra is the flattened copy of an addon stored with an order line.
// It survives later catalog edits.
type OrderItemExtra struct {
	AddonID   uuid.UUID       `json:"addon_id"`
	Name      LocalizedText   `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Cost is unit price times quantity for a single unit of the owning line.
func (e OrderItemExtra) Cost() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// OrderItemExtras is persisted as a JSON array.
type OrderItemExtras []OrderItemExtra

// Value implements driver.Valuer.
func (e OrderItemExtras) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]OrderItemExtra(e))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (e *OrderItemExtras) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("order item extras: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*e = nil
		return nil
	}
	var decoded []OrderItemExtra
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("order item extras: %w", err)
	}
	*e = decoded
	return nil
}
