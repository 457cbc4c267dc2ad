package enums

import "fmt"

// CheckoutStep names a screen of the checkout flow.
type CheckoutStep string

const (
	CheckoutStepExtras       CheckoutStep = "extras"
	CheckoutStepCustomerInfo CheckoutStep = "customer_info"
	CheckoutStepOrderType    CheckoutStep = "order_type"
	CheckoutStepSummary      CheckoutStep = "summary"
	CheckoutStepSuccess      CheckoutStep = "success"
)

var validCheckoutSteps = []CheckoutStep{
	CheckoutStepExtras,
	CheckoutStepCustomerInfo,
	CheckoutStepOrderType,
	CheckoutStepSummary,
	CheckoutStepSuccess,
}

// String implements fmt.Stringer.
func (s CheckoutStep) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutStep.
func (s CheckoutStep) IsValid() bool {
	for _, candidate := range validCheckoutSteps {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave the step.
func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepSuccess
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range validCheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
