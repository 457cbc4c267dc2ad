package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/pkg/db/models"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// Addon is an extra offered by a restaurant.
type Addon struct {
	ID    uuid.UUID           `json:"id"`
	Name  types.LocalizedText `json:"name"`
	Price decimal.Decimal     `json:"price"`
	Type  enums.AddonType     `json:"type"`
}

// Zone is an active delivery zone.
type Zone struct {
	ID            uuid.UUID           `json:"id"`
	Name          types.LocalizedText `json:"name"`
	Fee           decimal.Decimal     `json:"fee"`
	MinimumOrder  decimal.Decimal     `json:"minimum_order"`
	EstimatedTime string              `json:"estimated_time,omitempty"`
}

// Snapshot is both catalogs as loaded for one checkout session.
type Snapshot struct {
	Addons   []Addon `json:"addons"`
	Zones    []Zone  `json:"zones"`
	Degraded bool    `json:"degraded,omitempty"`
}

// EligibleAddons returns the addons matching the line category type, or all
// of them when the line carries no type.
func EligibleAddons(addons []Addon, categoryType enums.AddonType) []Addon {
	if categoryType == "" {
		return addons
	}
	out := make([]Addon, 0, len(addons))
	for _, addon := range addons {
		if addon.Type == categoryType {
			out = append(out, addon)
		}
	}
	return out
}

// FindAddon looks an addon up by id.
func FindAddon(addons []Addon, id uuid.UUID) (Addon, bool) {
	for _, addon := range addons {
		if addon.ID == id {
			return addon, true
		}
	}
	return Addon{}, false
}

// FindZone looks a zone up by id.
func FindZone(zones []Zone, id uuid.UUID) (Zone, bool) {
	for _, zone := range zones {
		if zone.ID == id {
			return zone, true
		}
	}
	return Zone{}, false
}

func addonFromModel(m models.Addon) Addon {
	return Addon{ID: m.ID, Name: m.Name, Price: m.Price, Type: m.Type}
}

func zoneFromModel(m models.DeliveryZone) Zone {
	return Zone{
		ID:            m.ID,
		Name:          m.Name,
		Fee:           m.Fee,
		MinimumOrder:  m.MinimumOrder,
		EstimatedTime: m.EstimatedTime,
	}
}
