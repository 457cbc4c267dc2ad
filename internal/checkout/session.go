package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/menuorders-backend/internal/cart"
	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/internal/restaurants"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
)

// State is everything the customer has entered plus the submission outcome.
type State struct {
	Step         enums.CheckoutStep     `json:"step"`
	Extras       ExtrasSelection        `json:"extras"`
	CustomerName string                 `json:"customer_name"`
	Phone        string                 `json:"phone"`
	Notes        string                 `json:"notes"`
	OrderType    enums.OrderType        `json:"order_type,omitempty"`
	Address      string                 `json:"address"`
	ZoneID       *uuid.UUID             `json:"zone_id,omitempty"`
	Status       enums.SubmissionStatus `json:"status"`
	LastError    string                 `json:"last_error,omitempty"`
	OrderNumber  int64                  `json:"order_number,omitempty"`
	SubmittedAt  *time.Time             `json:"submitted_at,omitempty"`
}

// Session is a checkout in progress. The restaurant, cart and catalogs are
// snapshots taken when the session opened.
type Session struct {
	ID         uuid.UUID              `json:"id"`
	Restaurant restaurants.Restaurant `json:"restaurant"`
	Locale     enums.Locale           `json:"locale"`
	Cart       cart.Cart              `json:"cart"`
	Catalog    catalog.Snapshot       `json:"catalog"`
	Sequence   StepSequence           `json:"sequence"`
	State      State                  `json:"state"`
	// Version increases with every save.
	Version    int64                  `json:"version"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// NewSession starts a session on the first step of its sequence.
func NewSession(restaurant restaurants.Restaurant, locale enums.Locale, c cart.Cart, snapshot catalog.Snapshot, now time.Time) *Session {
	seq := NewStepSequence(len(snapshot.Addons) > 0)
	return &Session{
		ID:         uuid.New(),
		Restaurant: restaurant,
		Locale:     locale,
		Cart:       c,
		Catalog:    snapshot,
		Sequence:   seq,
		State: State{
			Step:   seq.First(),
			Extras: ExtrasSelection{},
			Status: enums.SubmissionStatusIdle,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// selectedZone returns the chosen zone when it exists in the snapshot.
func (s *Session) selectedZone() (catalog.Zone, bool) {
	if s.State.ZoneID == nil {
		return catalog.Zone{}, false
	}
	return catalog.FindZone(s.Catalog.Zones, *s.State.ZoneID)
}
