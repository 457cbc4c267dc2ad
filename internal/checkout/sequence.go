package checkout

import "github.com/angelmondragon/menuorders-backend/pkg/enums"

// StepSequence is the ordered list of steps for one session. It is fixed when
// the session opens: the extras step is only present when the restaurant has
// addons.
type StepSequence []enums.CheckoutStep

func NewStepSequence(hasAddons bool) StepSequence {
	seq := make(StepSequence, 0, 5)
	if hasAddons {
		seq = append(seq, enums.CheckoutStepExtras)
	}
	return append(seq,
		enums.CheckoutStepCustomerInfo,
		enums.CheckoutStepOrderType,
		enums.CheckoutStepSummary,
		enums.CheckoutStepSuccess,
	)
}

func (s StepSequence) First() enums.CheckoutStep {
	if len(s) == 0 {
		return enums.CheckoutStepCustomerInfo
	}
	return s[0]
}

// Index returns the zero-based position of step, or -1.
func (s StepSequence) Index(step enums.CheckoutStep) int {
	for i, candidate := range s {
		if candidate == step {
			return i
		}
	}
	return -1
}

func (s StepSequence) Contains(step enums.CheckoutStep) bool {
	return s.Index(step) >= 0
}

// Next returns the step after current, if any.
func (s StepSequence) Next(current enums.CheckoutStep) (enums.CheckoutStep, bool) {
	idx := s.Index(current)
	if idx < 0 || idx+1 >= len(s) {
		return "", false
	}
	return s[idx+1], true
}

// Prev returns the step before current, if any.
func (s StepSequence) Prev(current enums.CheckoutStep) (enums.CheckoutStep, bool) {
	idx := s.Index(current)
	if idx <= 0 {
		return "", false
	}
	return s[idx-1], true
}
