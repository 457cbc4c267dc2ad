package env

import "testing"

func TestGetFallsBackWhenBlank(t *testing.T) {
	t.Setenv("MENUORDERS_TEST_VALUE", "   ")
	if got := Get("MENUORDERS_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	t.Setenv("MENUORDERS_TEST_VALUE", " console ")
	if got := Get("MENUORDERS_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("MENUORDERS_TEST_FLAG", "YES")
	if !Bool("MENUORDERS_TEST_FLAG", false) {
		t.Fatal("expected YES to be truthy")
	}
	t.Setenv("MENUORDERS_TEST_FLAG", "off")
	if Bool("MENUORDERS_TEST_FLAG", true) {
		t.Fatal("expected off to be falsy")
	}
	t.Setenv("MENUORDERS_TEST_FLAG", "maybe")
	if !Bool("MENUORDERS_TEST_FLAG", true) {
		t.Fatal("expected fallback for unknown value")
	}
}
