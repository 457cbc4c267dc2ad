package models

import "github.com/google/uuid"

// assignID gives a row a client-side id so inserts behave the same on
// postgres and sqlite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Restaurant{},
		&Addon{},
		&DeliveryZone{},
		&Order{},
		&OrderLineItem{},
	}
}
