package checkout

import (
	"testing"

	"github.com/google/uuid"
)

func TestExtrasAdjustAddsAndRemoves(t *testing.T) {
	var extras ExtrasSelection
	addon := uuid.New()

	if got := extras.Adjust("line", addon, 1); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := extras.Adjust("line", addon, 2); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := extras.Adjust("line", addon, -3); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if _, ok := extras["line"]; ok {
		t.Fatalf("empty line key must be removed, got %v", extras)
	}
}

func TestExtrasAdjustNeverNegative(t *testing.T) {
	extras := ExtrasSelection{}
	addon := uuid.New()

	if got := extras.Adjust("line", addon, -1); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if extras.Count() != 0 {
		t.Fatalf("nothing should be stored, got %v", extras)
	}
}

func TestExtrasRemovingOneAddonKeepsSiblings(t *testing.T) {
	extras := ExtrasSelection{}
	first, second := uuid.New(), uuid.New()
	extras.Adjust("line", first, 1)
	extras.Adjust("line", second, 1)

	extras.Adjust("line", first, -1)

	if extras.Quantity("line", first) != 0 {
		t.Fatalf("first addon should be gone")
	}
	if _, ok := extras["line"][first]; ok {
		t.Fatalf("zero quantity must not be stored")
	}
	if extras.Quantity("line", second) != 1 {
		t.Fatalf("second addon should stay")
	}
}
