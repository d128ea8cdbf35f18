package outbox

import (
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// BroadcastRecipient is the sentinel recipient meaning "all active couriers on
// this platform". The worker fans a broadcast message out at send time.
const BroadcastRecipient = "*"

// DefaultMaxRetries bounds how many delivery attempts a message gets before it
// is marked failed terminally.
const DefaultMaxRetries = 5

// MaxLastErrorLen bounds the stored delivery error in bytes, matching the
// column width of the persisted row.
const MaxLastErrorLen = 512

var (
	// ErrMessageIsNotConstructed is returned when a Message was not created
	// through NewMessage or RestoreMessage.
	ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage constructor")

	// ErrMessageTypeIsRequired is returned when a message is created without a type tag.
	ErrMessageTypeIsRequired = errs.NewValueIsRequiredError("message type")

	// ErrRecipientIsRequired is returned when a message is created without a recipient.
	ErrRecipientIsRequired = errs.NewValueIsRequiredError("recipient")
)

// Message is a queued outward notification. It is created inside the same
// database transaction as the business state change it announces and consumed
// later by an independent polling worker, so a failure of the messaging channel
// can never roll back a committed business operation.
//
// The persisted row shape (platform, recipient, type, payload, status, retry
// bookkeeping) is the contract between the core and the sending collaborator.
type Message struct {
	id          kernel.UUID
	platform    Platform
	recipient   string
	messageType string
	payload     json.RawMessage

	status      Status
	retryCount  int
	maxRetries  int
	nextRetryAt *time.Time
	lastError   string

	createdAt time.Time
	sentAt    *time.Time

	isConstructed bool
}

// NewMessage creates a pending outbox message. Enqueueing performs no I/O and
// cannot fail independently of the surrounding transaction.
func NewMessage(
	id kernel.UUID,
	platform Platform,
	recipient string,
	messageType string,
	payload json.RawMessage,
	maxRetries int,
	now time.Time,
) (*Message, error) {
	if err := errors.Join(id.Validate(), platform.Validate()); err != nil {
		return nil, err
	}
	if recipient == "" {
		return nil, ErrRecipientIsRequired
	}
	if messageType == "" {
		return nil, ErrMessageTypeIsRequired
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	return &Message{
		id:            id,
		platform:      platform,
		recipient:     recipient,
		messageType:   messageType,
		payload:       payload,
		status:        StatusPending,
		maxRetries:    maxRetries,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreMessage reconstructs a message from persistence.
func RestoreMessage(
	id kernel.UUID,
	platform Platform,
	recipient string,
	messageType string,
	payload json.RawMessage,
	status Status,
	retryCount int,
	maxRetries int,
	nextRetryAt *time.Time,
	lastError string,
	createdAt time.Time,
	sentAt *time.Time,
) (*Message, error) {
	if err := errors.Join(id.Validate(), platform.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Message{
		id:            id,
		platform:      platform,
		recipient:     recipient,
		messageType:   messageType,
		payload:       payload,
		status:        status,
		retryCount:    retryCount,
		maxRetries:    maxRetries,
		nextRetryAt:   nextRetryAt,
		lastError:     lastError,
		createdAt:     createdAt,
		sentAt:        sentAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the message was properly constructed.
func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// ID returns the message identifier.
func (m *Message) ID() kernel.UUID { return m.id }

// Platform returns the target messaging channel.
func (m *Message) Platform() Platform { return m.platform }

// Recipient returns the recipient identifier, or BroadcastRecipient.
func (m *Message) Recipient() string { return m.recipient }

// MessageType returns the message type tag.
func (m *Message) MessageType() string { return m.messageType }

// Payload returns the opaque JSON payload.
func (m *Message) Payload() json.RawMessage { return m.payload }

// Status returns the current delivery status.
func (m *Message) Status() Status { return m.status }

// RetryCount returns the number of failed attempts so far.
func (m *Message) RetryCount() int { return m.retryCount }

// MaxRetries returns the attempt budget.
func (m *Message) MaxRetries() int { return m.maxRetries }

// NextRetryAt returns when the message becomes due again, or nil.
func (m *Message) NextRetryAt() *time.Time { return m.nextRetryAt }

// LastError returns the most recent delivery error, or empty.
func (m *Message) LastError() string { return m.lastError }

// CreatedAt returns when the message was enqueued.
func (m *Message) CreatedAt() time.Time { return m.createdAt }

// SentAt returns when the message was delivered, or nil.
func (m *Message) SentAt() *time.Time { return m.sentAt }

// IsBroadcast reports whether the message fans out to all active recipients on
// its platform.
func (m *Message) IsBroadcast() bool {
	return m.recipient == BroadcastRecipient
}

// IsDue reports whether a pending message is ready for a delivery attempt.
func (m *Message) IsDue(now time.Time) bool {
	if m.status != StatusPending {
		return false
	}
	return m.nextRetryAt == nil || !m.nextRetryAt.After(now)
}

// MarkProcessing claims the message for a delivery attempt.
func (m *Message) MarkProcessing() error {
	if m.status != StatusPending {
		return ErrNotPending
	}
	m.status = StatusProcessing
	return nil
}

// MarkSent records a successful delivery. For a broadcast, success of any
// recipient counts.
func (m *Message) MarkSent(now time.Time) {
	m.status = StatusSent
	m.sentAt = &now
	m.lastError = ""
	m.nextRetryAt = nil
}

// RecordFailure counts a failed attempt. The message returns to pending with a
// capped exponential backoff, or becomes terminally failed once the attempt
// budget is exhausted. The reason is truncated to MaxLastErrorLen so an
// oversized notifier error can never fail the outcome-recording update.
func (m *Message) RecordFailure(reason string, base, maxBackoff time.Duration, now time.Time) {
	m.retryCount++
	m.lastError = truncateReason(reason)

	if m.retryCount >= m.maxRetries {
		m.status = StatusFailed
		m.nextRetryAt = nil
		return
	}

	retryAt := now.Add(Backoff(m.retryCount, base, maxBackoff))
	m.status = StatusPending
	m.nextRetryAt = &retryAt
}

// truncateReason caps the reason at MaxLastErrorLen bytes without splitting a
// multi-byte rune.
func truncateReason(reason string) string {
	if len(reason) <= MaxLastErrorLen {
		return reason
	}

	cut := reason[:MaxLastErrorLen]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

// Backoff computes min(base × 2^retryCount, maxBackoff). The cap is applied
// inside the doubling loop, so a long-lived row with a large retry count can
// never overflow or produce an absurd wait.
func Backoff(retryCount int, base, maxBackoff time.Duration) time.Duration {
	if base >= maxBackoff {
		return maxBackoff
	}

	d := base
	for range retryCount {
		d *= 2
		if d >= maxBackoff || d <= 0 {
			return maxBackoff
		}
	}
	return d
}
