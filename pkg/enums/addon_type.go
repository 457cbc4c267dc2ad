package enums

import "fmt"

// AddonType scopes an addon to the category type of a cart line.
type AddonType string

const (
	AddonTypeSavory AddonType = "savory"
	AddonTypeSweet  AddonType = "sweet"
)

var validAddonTypes = []AddonType{
	AddonTypeSavory,
	AddonTypeSweet,
}

// String implements fmt.Stringer.
func (a AddonType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddonType.
func (a AddonType) IsValid() bool {
	for _, candidate := range validAddonTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAddonType converts raw input into an AddonType.
func ParseAddonType(value string) (AddonType, error) {
	for _, candidate := range validAddonTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid addon type %q", value)
}
