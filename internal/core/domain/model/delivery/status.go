package delivery

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
// It implements a state machine with defined transitions so that every
// mutation of a delivery follows the legal workflow.
//
// State transitions:
//
//	Open ──┬──> Captured ──┬──> InProgress ──> Delivered
//	       │       │       └──> Delivered
//	       │       └──> Open (released)
//	       ├──> PendingApproval ──┬──> Captured (approved)
//	       │                      └──> Open (rejected)
//	       └──> Cancelled
//
// Cancelled and Delivered are terminal.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusOpen is the initial status of a delivery posted by a sender.
	// Open deliveries are visible to couriers and can be captured.
	StatusOpen

	// StatusPendingApproval indicates a station-mediated delivery that a courier
	// has requested and that is awaiting a dispatcher's decision.
	StatusPendingApproval

	// StatusCaptured indicates the delivery is assigned to a courier and the
	// courier's wallet has been debited for the fee.
	StatusCaptured

	// StatusInProgress indicates the courier has started the delivery run.
	StatusInProgress

	// StatusDelivered indicates the delivery reached its destination. Terminal.
	StatusDelivered

	// StatusCancelled indicates the sender withdrew the delivery. Terminal.
	StatusCancelled
)

// Typed business failures raised by illegal transitions. Expected, frequent
// outcomes under concurrency; they all unwrap to errs.ErrDomainRule so that
// handlers can recover them at the boundary.
var (
	ErrAlreadyTaken       = errs.NewDomainRuleError("delivery is already taken by another courier")
	ErrAlreadyPending     = errs.NewDomainRuleError("delivery is already pending approval")
	ErrDeliveryClosed     = errs.NewDomainRuleError("delivery is already closed")
	ErrNotCaptured        = errs.NewDomainRuleError("delivery is not captured")
	ErrNotPendingApproval = errs.NewDomainRuleError("delivery is not pending approval")
	ErrNotDeliverable     = errs.NewDomainRuleError("delivery cannot be marked delivered in its current status")
	ErrNotOwner           = errs.NewDomainRuleError("delivery belongs to another courier")
	ErrNotRequester       = errs.NewDomainRuleError("delivery was requested by another courier")
	ErrApprovalRequired   = errs.NewDomainRuleError("station delivery requires dispatcher approval")
	ErrNotStationDelivery = errs.NewDomainRuleError("delivery is not mediated by a station")
	ErrNotSender          = errs.NewDomainRuleError("delivery belongs to another sender")
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:         "Unknown",
		StatusOpen:            "Open",
		StatusPendingApproval: "PendingApproval",
		StatusCaptured:        "Captured",
		StatusInProgress:      "InProgress",
		StatusDelivered:       "Delivered",
		StatusCancelled:       "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusOpen:            "Open",
		StatusPendingApproval: "PendingApproval",
		StatusCaptured:        "Captured",
		StatusInProgress:      "InProgress",
		StatusDelivered:       "Delivered",
		StatusCancelled:       "Cancelled",
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Used when reconstructing deliveries from persistence.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// HasCourier reports whether a delivery in this status must carry a courier
// assignment. courier_id is set if and only if this returns true.
func (s Status) HasCourier() bool {
	return s == StatusCaptured || s == StatusInProgress || s == StatusDelivered
}

// Capture transitions the status to Captured.
//
// Valid from Open and PendingApproval (the approval path). Any other status
// yields a typed business failure describing why the delivery is unavailable.
func (s Status) Capture() (Status, error) {
	switch s {
	case StatusOpen, StatusPendingApproval:
		return StatusCaptured, nil
	case StatusCaptured, StatusInProgress:
		return 0, ErrAlreadyTaken
	default:
		return 0, ErrDeliveryClosed
	}
}

// RequestApproval transitions the status to PendingApproval.
// Only an Open delivery can be requested; a concurrent second request observes
// PendingApproval and receives ErrAlreadyPending.
func (s Status) RequestApproval() (Status, error) {
	switch s {
	case StatusOpen:
		return StatusPendingApproval, nil
	case StatusPendingApproval:
		return 0, ErrAlreadyPending
	case StatusCaptured, StatusInProgress:
		return 0, ErrAlreadyTaken
	default:
		return 0, ErrDeliveryClosed
	}
}

// Release transitions the status back to Open. Only legal from Captured.
func (s Status) Release() (Status, error) {
	if s != StatusCaptured {
		return 0, ErrNotCaptured
	}
	return StatusOpen, nil
}

// Start transitions the status to InProgress once the courier begins the run.
func (s Status) Start() (Status, error) {
	if s != StatusCaptured {
		return 0, ErrNotCaptured
	}
	return StatusInProgress, nil
}

// Deliver transitions the status to Delivered. Legal from Captured or InProgress.
func (s Status) Deliver() (Status, error) {
	if s != StatusCaptured && s != StatusInProgress {
		return 0, ErrNotDeliverable
	}
	return StatusDelivered, nil
}
