package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
)

type samplePayload struct {
	Name  string       `json:"name" validate:"required,max=10"`
	Items []sampleItem `json:"items" validate:"required,min=1,dive"`
}

type sampleItem struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Sara","items":[{"quantity":2}]}`))
	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "Sara" || payload.Items[0].Quantity != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Sara","items":[{"quantity":1}],"extra":true}`))
	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","items":[{"quantity":0}]}`))
	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected name detail %q", details["name"])
	}
	if details["items[0].quantity"] != "must be at least 1" {
		t.Fatalf("unexpected quantity detail %v", details)
	}
}

func TestDecodeJSONBodyRejectsMalformedBodies(t *testing.T) {
	tests := map[string]string{
		"empty":    ``,
		"trailing": `{"name":"Sara","items":[{"quantity":1}]} {"name":"x"}`,
		"too big":  `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`,
		"not json": `name=Sara`,
	}
	for name, body := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var payload samplePayload
		if err := DecodeJSONBody(req, &payload); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

type localePayload struct {
	Locale string `json:"locale" validate:"omitempty,locale"`
	Type   string `json:"type" validate:"omitempty,addon_type"`
}

func TestDecodeJSONBodyDomainTags(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"locale":"ar-SA","type":"sweet"}`))
	var ok localePayload
	if err := DecodeJSONBody(req, &ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"locale":"fr","type":"spicy"}`))
	var bad localePayload
	typed := pkgerrors.As(DecodeJSONBody(req, &bad))
	if typed == nil {
		t.Fatalf("expected validation error")
	}
	details := typed.Details().(map[string]string)
	if details["locale"] == "" || details["type"] != "must be savory or sweet" {
		t.Fatalf("unexpected details %v", details)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "sessionId", id.String())
	got, err := ParseUUIDParam(req, "sessionId")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, err)
	}

	bad := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "sessionId", "nope")
	if _, err := ParseUUIDParam(bad, "sessionId"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParsePositiveIntParam(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "orderNumber", "42")
	got, err := ParsePositiveIntParam(req, "orderNumber")
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %d (%v)", got, err)
	}
	for _, raw := range []string{"0", "-3", "x"} {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "orderNumber", raw)
		if _, err := ParsePositiveIntParam(req, "orderNumber"); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  سارة محمد  ", 4); got != "سارة" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" Sara ", 0); got != "Sara" {
		t.Fatalf("unexpected %q", got)
	}
}
