// Package webhook contains the inbound idempotency guard.
//
// Every inbound webhook carries a unique message identifier from the upstream
// channel. A WebhookEvent row records the processing state of that identifier:
// a completed row blocks reprocessing of the same message, while a processing
// or failed row (including a stale processing row left by a crashed worker)
// permits a retry attempt. This guards the inbound side exactly as the outbox
// guards the outbound side.
package webhook

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/pkg/errs"
)

// Status represents the processing state of an inbound message identifier.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusProcessing means a handler is (or was) working on the message.
	StatusProcessing

	// StatusCompleted means the message was fully processed. Blocks reprocessing.
	StatusCompleted

	// StatusFailed means processing failed; a retry is permitted.
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "Unknown",
		StatusProcessing: "Processing",
		StatusCompleted:  "Completed",
		StatusFailed:     "Failed",
	}
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if s != StatusProcessing && s != StatusCompleted && s != StatusFailed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid webhook event status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

var (
	// ErrEventIsNotConstructed is returned when an Event was not created through
	// NewEvent or RestoreEvent.
	ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

	// ErrMessageIDIsRequired is returned when an event is created without the
	// upstream message identifier.
	ErrMessageIDIsRequired = errs.NewValueIsRequiredError("message id")
)

// Event is the idempotency record for one inbound message identifier.
type Event struct {
	messageID string
	platform  outbox.Platform
	status    Status
	createdAt time.Time

	isConstructed bool
}

// NewEvent creates a processing event for a freshly observed message identifier.
func NewEvent(messageID string, platform outbox.Platform, now time.Time) (*Event, error) {
	if messageID == "" {
		return nil, ErrMessageIDIsRequired
	}
	if err := platform.Validate(); err != nil {
		return nil, err
	}

	return &Event{
		messageID:     messageID,
		platform:      platform,
		status:        StatusProcessing,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreEvent reconstructs an event from persistence.
func RestoreEvent(messageID string, platform outbox.Platform, status Status, createdAt time.Time) (*Event, error) {
	if messageID == "" {
		return nil, ErrMessageIDIsRequired
	}
	if err := errors.Join(platform.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Event{
		messageID:     messageID,
		platform:      platform,
		status:        status,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the event was properly constructed.
func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// MessageID returns the upstream message identifier.
func (e *Event) MessageID() string { return e.messageID }

// Platform returns the channel the message arrived on.
func (e *Event) Platform() outbox.Platform { return e.platform }

// Status returns the processing state.
func (e *Event) Status() Status { return e.status }

// CreatedAt returns when the identifier was first observed.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// BlocksReprocessing reports whether this event short-circuits a repeated
// inbound message. Only a completed event blocks; processing and failed rows
// permit a retry attempt.
func (e *Event) BlocksReprocessing() bool {
	return e.status == StatusCompleted
}

// MarkCompleted records successful processing of the inbound message.
func (e *Event) MarkCompleted() {
	e.status = StatusCompleted
}

// MarkFailed records failed processing; the message may be retried.
func (e *Event) MarkFailed() {
	e.status = StatusFailed
}

// Reclaim resets a stale processing or failed row for a retry attempt.
func (e *Event) Reclaim() {
	e.status = StatusProcessing
}
