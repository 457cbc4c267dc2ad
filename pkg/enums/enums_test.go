package enums

import "testing"

func TestParseOrderType(t *testing.T) {
	got, err := ParseOrderType("delivery")
	if err != nil || got != OrderTypeDelivery {
		t.Fatalf("expected delivery, got %q err=%v", got, err)
	}
	if _, err := ParseOrderType("dine_in"); err == nil {
		t.Fatal("expected error for unknown order type")
	}
	if OrderType("").IsValid() {
		t.Fatal("empty order type should be invalid")
	}
}

func TestParseAddonType(t *testing.T) {
	for _, raw := range []string{"savory", "sweet"} {
		got, err := ParseAddonType(raw)
		if err != nil || got.String() != raw {
			t.Fatalf("expected %q to parse, got %q err=%v", raw, got, err)
		}
	}
	if AddonType("spicy").IsValid() {
		t.Fatal("spicy should be invalid")
	}
}

func TestCheckoutStepTerminal(t *testing.T) {
	for _, step := range validCheckoutSteps {
		if step.IsTerminal() != (step == CheckoutStepSuccess) {
			t.Fatalf("unexpected terminal flag for %s", step)
		}
	}
	if _, err := ParseCheckoutStep("payment"); err == nil {
		t.Fatal("expected error for unknown step")
	}
}

func TestParseSubmissionStatus(t *testing.T) {
	got, err := ParseSubmissionStatus("failed")
	if err != nil || got != SubmissionStatusFailed {
		t.Fatalf("expected failed, got %q err=%v", got, err)
	}
	if _, err := ParseSubmissionStatus("done"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseLocale(t *testing.T) {
	cases := map[string]Locale{"ar": LocaleAR, " AR ": LocaleAR, "ar-SA": LocaleAR, "en_US": LocaleEN}
	for raw, want := range cases {
		got, err := ParseLocale(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLocale(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseLocale("fr"); err == nil {
		t.Fatal("expected error for unsupported locale")
	}
}
