package enums

import (
	"fmt"
	"strings"
)

// Locale selects message labels and localized names.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleAR Locale = "ar"
)

var validLocales = []Locale{
	LocaleEN,
	LocaleAR,
}

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// IsValid reports whether the value is a supported Locale.
func (l Locale) IsValid() bool {
	for _, candidate := range validLocales {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocale accepts tags such as "ar", "AR" or "ar-SA".
func ParseLocale(value string) (Locale, error) {
	tag := strings.ToLower(strings.TrimSpace(value))
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		tag = tag[:idx]
	}
	for _, candidate := range validLocales {
		if string(candidate) == tag {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid locale %q", value)
}
