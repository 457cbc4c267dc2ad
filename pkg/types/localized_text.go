package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/menuorders-backend/pkg/enums"
)

// LocalizedText holds a display name in each supported locale.
type LocalizedText struct {
	En string `json:"en"`
	Ar string `json:"ar,omitempty"`
}

// Resolve returns the text for the locale, falling back to the other
// locale when the requested one is blank.
func (t LocalizedText) Resolve(locale enums.Locale) string {
	en := strings.TrimSpace(t.En)
	ar := strings.TrimSpace(t.Ar)
	if locale == enums.LocaleAR {
		if ar != "" {
			return ar
		}
		return en
	}
	if en != "" {
		return en
	}
	return ar
}

// IsZero reports whether no locale has text.
func (t LocalizedText) IsZero() bool {
	return strings.TrimSpace(t.En) == "" && strings.TrimSpace(t.Ar) == ""
}

// Value stores the text as a JSON document (jsonb on postgres).
func (t LocalizedText) Value() (driver.Value, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes a JSON document. A plain string is treated as English.
func (t *LocalizedText) Scan(value interface{}) error {
	if value == nil {
		*t = LocalizedText{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("localized text: unsupported scan type %T", value)
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		*t = LocalizedText{}
		return nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		*t = LocalizedText{En: trimmed}
		return nil
	}
	return json.Unmarshal([]byte(trimmed), t)
}
