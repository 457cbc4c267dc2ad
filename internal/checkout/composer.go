package checkout

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
)

const defaultMinPhoneLength = 8

// Rules holds the tunable gate thresholds.
type Rules struct {
	MinPhoneLength int
}

func (r Rules) minPhoneLength() int {
	if r.MinPhoneLength <= 0 {
		return defaultMinPhoneLength
	}
	return r.MinPhoneLength
}

// Problem is one reason the current step cannot be left forward.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Problems returns what blocks leaving the current step. Empty means the
// customer may advance.
func (s *Session) Problems(rules Rules) []Problem {
	switch s.State.Step {
	case enums.CheckoutStepCustomerInfo:
		return s.customerProblems(rules)
	case enums.CheckoutStepOrderType:
		return s.fulfillmentProblems()
	}
	return nil
}

func (s *Session) customerProblems(rules Rules) []Problem {
	var problems []Problem
	if strings.TrimSpace(s.State.CustomerName) == "" {
		problems = append(problems, Problem{Field: "name", Message: "name is required"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(s.State.Phone)) < rules.minPhoneLength() {
		problems = append(problems, Problem{
			Field:   "phone",
			Message: fmt.Sprintf("phone must be at least %d characters", rules.minPhoneLength()),
		})
	}
	return problems
}

func (s *Session) fulfillmentProblems() []Problem {
	switch s.State.OrderType {
	case enums.OrderTypePickup:
		return nil
	case enums.OrderTypeDelivery:
	default:
		return []Problem{{Field: "order_type", Message: "order type is required"}}
	}

	if len(s.Catalog.Zones) == 0 {
		return []Problem{{Field: "zone_id", Message: "no delivery zones available"}}
	}
	var problems []Problem
	if _, ok := s.selectedZone(); !ok {
		problems = append(problems, Problem{Field: "zone_id", Message: "delivery zone is required"})
	}
	if strings.TrimSpace(s.State.Address) == "" {
		problems = append(problems, Problem{Field: "address", Message: "address is required"})
	}
	return problems
}

// SetAddonQuantity changes the quantity of an addon on a cart line by delta
// and returns the new quantity.
func (s *Session) SetAddonQuantity(lineID string, addonID uuid.UUID, delta int) (int, error) {
	if err := s.ensureEditable(); err != nil {
		return 0, err
	}
	if delta == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}
	line, ok := s.Cart.Find(lineID)
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown cart line %q", lineID))
	}
	eligible := catalog.EligibleAddons(s.Catalog.Addons, line.CategoryType)
	if _, ok := catalog.FindAddon(eligible, addonID); !ok {
		if _, known := catalog.FindAddon(s.Catalog.Addons, addonID); known {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "addon is not available for this item")
		}
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown addon")
	}
	return s.State.Extras.Adjust(lineID, addonID, delta), nil
}

// CustomerUpdate carries the fields to overwrite; nil leaves a field alone.
type CustomerUpdate struct {
	Name  *string
	Phone *string
	Notes *string
}

func (s *Session) UpdateCustomer(update CustomerUpdate) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if update.Name != nil {
		s.State.CustomerName = *update.Name
	}
	if update.Phone != nil {
		s.State.Phone = *update.Phone
	}
	if update.Notes != nil {
		s.State.Notes = *update.Notes
	}
	return nil
}

// FulfillmentUpdate carries order type, zone and address changes. ClearZone
// drops a previously selected zone.
type FulfillmentUpdate struct {
	OrderType *enums.OrderType
	ZoneID    *uuid.UUID
	ClearZone bool
	Address   *string
}

// UpdateFulfillment applies the changes. Switching to pickup keeps the zone
// and address so switching back restores them; pickup never pays the fee.
func (s *Session) UpdateFulfillment(update FulfillmentUpdate) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if update.OrderType != nil {
		if !update.OrderType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order type %q", *update.OrderType))
		}
		if *update.OrderType == enums.OrderTypeDelivery && len(s.Catalog.Zones) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no delivery zones available").
				WithDetails([]Problem{{Field: "order_type", Message: "no delivery zones available"}})
		}
	}
	if update.ZoneID != nil {
		if _, ok := catalog.FindZone(s.Catalog.Zones, *update.ZoneID); !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery zone")
		}
	}

	if update.OrderType != nil {
		s.State.OrderType = *update.OrderType
	}
	switch {
	case update.ClearZone:
		s.State.ZoneID = nil
	case update.ZoneID != nil:
		zoneID := *update.ZoneID
		s.State.ZoneID = &zoneID
	}
	if update.Address != nil {
		s.State.Address = *update.Address
	}
	return nil
}

// Advance moves to the next step when the current one has no problems.
// Summary is left only through a submission.
func (s *Session) Advance(rules Rules) (enums.CheckoutStep, error) {
	current := s.State.Step
	switch {
	case current.IsTerminal():
		return current, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already complete")
	case current == enums.CheckoutStepSummary:
		return current, pkgerrors.New(pkgerrors.CodeStateConflict, "submit the order to finish checkout")
	case s.State.Status == enums.SubmissionStatusSubmitting:
		return current, errSubmitting()
	}
	if problems := s.Problems(rules); len(problems) > 0 {
		return current, pkgerrors.New(pkgerrors.CodeValidation, problems[0].Message).WithDetails(problems)
	}
	next, ok := s.Sequence.Next(current)
	if !ok {
		return current, pkgerrors.New(pkgerrors.CodeStateConflict, "no next step")
	}
	s.State.Step = next
	return next, nil
}

// Back returns to the previous step without clearing anything.
func (s *Session) Back() (enums.CheckoutStep, error) {
	current := s.State.Step
	if current.IsTerminal() {
		return current, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already complete")
	}
	if s.State.Status == enums.SubmissionStatusSubmitting {
		return current, errSubmitting()
	}
	prev, ok := s.Sequence.Prev(current)
	if !ok {
		return current, pkgerrors.New(pkgerrors.CodeStateConflict, "already at the first step")
	}
	s.State.Step = prev
	return prev, nil
}

// CanGoBack reports whether Back would succeed.
func (s *Session) CanGoBack() bool {
	if s.State.Step.IsTerminal() || s.State.Status == enums.SubmissionStatusSubmitting {
		return false
	}
	_, ok := s.Sequence.Prev(s.State.Step)
	return ok
}

// BeginSubmit checks that the session is ready to be stored and marks it
// as submitting.
func (s *Session) BeginSubmit(rules Rules) error {
	if s.State.Step != enums.CheckoutStepSummary {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "orders can only be submitted from the summary step")
	}
	if s.State.Status == enums.SubmissionStatusSubmitting {
		return errSubmitting()
	}
	var problems []Problem
	problems = append(problems, s.customerProblems(rules)...)
	problems = append(problems, s.fulfillmentProblems()...)
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, problems[0].Message).WithDetails(problems)
	}
	s.State.Status = enums.SubmissionStatusSubmitting
	s.State.LastError = ""
	return nil
}

// FailSubmit records a failed store call. The customer stays on Summary and
// may submit again.
func (s *Session) FailSubmit(message string) {
	s.State.Status = enums.SubmissionStatusFailed
	s.State.LastError = message
	s.State.Step = enums.CheckoutStepSummary
}

// CompleteSubmit records the order number and finishes the checkout.
func (s *Session) CompleteSubmit(orderNumber int64, at time.Time) {
	s.State.Status = enums.SubmissionStatusSubmitted
	s.State.LastError = ""
	s.State.OrderNumber = orderNumber
	submittedAt := at.UTC()
	s.State.SubmittedAt = &submittedAt
	s.State.Step = enums.CheckoutStepSuccess
}

func (s *Session) ensureEditable() error {
	if s.State.Step.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout is already complete")
	}
	if s.State.Status == enums.SubmissionStatusSubmitting {
		return errSubmitting()
	}
	return nil
}

func errSubmitting() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "order submission already in progress")
}
