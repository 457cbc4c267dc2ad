package enums

import "fmt"

// SubmissionStatus tracks the order submission attempt of a checkout session.
type SubmissionStatus string

const (
	SubmissionStatusIdle       SubmissionStatus = "idle"
	SubmissionStatusSubmitting SubmissionStatus = "submitting"
	SubmissionStatusFailed     SubmissionStatus = "failed"
	SubmissionStatusSubmitted  SubmissionStatus = "submitted"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusIdle,
	SubmissionStatusSubmitting,
	SubmissionStatusFailed,
	SubmissionStatusSubmitted,
}

// String implements fmt.Stringer.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionStatus.
func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionStatus converts raw input into a SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	for _, candidate := range validSubmissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission status %q", value)
}
