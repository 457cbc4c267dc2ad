// Package whatsapp builds click-to-chat deep links for order messages.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

const DefaultBaseURL = "https://wa.me"

// ErrMissingPhone is returned when the target phone has no digits.
var ErrMissingPhone = errors.New("whatsapp phone number is required")

// Linker turns a phone number and message into a wa.me URL.
type Linker struct {
	baseURL string
}

func NewLinker(baseURL string) *Linker {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Linker{baseURL: baseURL}
}

// Link returns <base>/<digits>?text=<escaped message>. Everything but digits
// is stripped from the phone, so "+966 50-123" becomes "96650123".
func (l *Linker) Link(phone, message string) (string, error) {
	digits := Digits(phone)
	if digits == "" {
		return "", ErrMissingPhone
	}
	link := l.baseURL + "/" + digits
	if message == "" {
		return link, nil
	}
	return link + "?text=" + escape(message), nil
}

// escape matches encodeURIComponent: spaces become %20 rather than '+'.
func escape(message string) string {
	return strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

// Digits keeps only ASCII digits.
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
