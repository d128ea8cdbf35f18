package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not created
	// through NewDelivery or RestoreDelivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

	// ErrFeeIsNegative is returned when a delivery is created with a negative fee.
	ErrFeeIsNegative = errs.NewValueIsInvalidError("fee must not be negative")
)

// Delivery is the aggregate root of a shipment request posted by a sender.
//
// Invariants:
//   - courierID is set if and only if status ∈ {Captured, InProgress, Delivered}
//   - requestingCourierID is set if and only if status = PendingApproval
//   - the fee is an exact decimal, never floating point
//   - terminal statuses (Delivered, Cancelled) are immutable, except that
//     Captured may be released back to Open
//
// All transitions go through the Status state machine; a mismatch yields a
// typed business failure and leaves the aggregate untouched. Concurrency
// control is not the aggregate's job: callers must hold an exclusive row lock
// on the delivery before loading and mutating it.
type Delivery struct {
	id        kernel.UUID
	token     kernel.Token
	senderID  kernel.UUID
	stationID *kernel.UUID

	pickup  Address
	dropoff Address
	fee     decimal.Decimal

	status              Status
	courierID           *kernel.UUID
	requestingCourierID *kernel.UUID

	approverID *kernel.UUID
	decision   Decision

	createdAt   time.Time
	requestedAt *time.Time
	decidedAt   *time.Time
	capturedAt  *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewDelivery creates an Open delivery with a fresh public token.
// stationID is optional: station-mediated deliveries must go through the
// approval workflow before capture.
func NewDelivery(
	id kernel.UUID,
	senderID kernel.UUID,
	stationID *kernel.UUID,
	pickup Address,
	dropoff Address,
	fee decimal.Decimal,
	now time.Time,
) (*Delivery, error) {
	d := &Delivery{
		token:         kernel.NewToken(),
		status:        StatusOpen,
		decision:      DecisionNone,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setSenderID(senderID),
		d.setStationID(stationID),
		d.setPickup(pickup),
		d.setDropoff(dropoff),
		d.setFee(fee),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDelivery reconstructs a delivery from persistence, verifying the
// status/courier consistency invariants before returning it.
func RestoreDelivery(
	id kernel.UUID,
	token kernel.Token,
	senderID kernel.UUID,
	stationID *kernel.UUID,
	pickup Address,
	dropoff Address,
	fee decimal.Decimal,
	status Status,
	courierID *kernel.UUID,
	requestingCourierID *kernel.UUID,
	approverID *kernel.UUID,
	decision Decision,
	createdAt time.Time,
	requestedAt, decidedAt, capturedAt, deliveredAt *time.Time,
) (*Delivery, error) {
	if err := errors.Join(
		id.Validate(),
		token.Validate(),
		senderID.Validate(),
		pickup.Validate(),
		dropoff.Validate(),
		status.Validate(),
		decision.Validate(),
	); err != nil {
		return nil, err
	}

	if status.HasCourier() != (courierID != nil) {
		return nil, errs.NewValueIsInvalidError("courier assignment is inconsistent with status")
	}
	if (status == StatusPendingApproval) != (requestingCourierID != nil) {
		return nil, errs.NewValueIsInvalidError("requesting courier is inconsistent with status")
	}

	return &Delivery{
		id:                  id,
		token:               token,
		senderID:            senderID,
		stationID:           stationID,
		pickup:              pickup,
		dropoff:             dropoff,
		fee:                 fee,
		status:              status,
		courierID:           courierID,
		requestingCourierID: requestingCourierID,
		approverID:          approverID,
		decision:            decision,
		createdAt:           createdAt,
		requestedAt:         requestedAt,
		decidedAt:           decidedAt,
		capturedAt:          capturedAt,
		deliveredAt:         deliveredAt,
		isConstructed:       true,
	}, nil
}

// Validate ensures the Delivery instance was properly constructed.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID { return d.id }

// Token returns the unlinkable public token used in outward links.
func (d *Delivery) Token() kernel.Token { return d.token }

// SenderID returns the identifier of the sender who posted the delivery.
func (d *Delivery) SenderID() kernel.UUID { return d.senderID }

// StationID returns the mediating station's identifier, or nil for direct deliveries.
func (d *Delivery) StationID() *kernel.UUID { return d.stationID }

// Pickup returns the pickup endpoint.
func (d *Delivery) Pickup() Address { return d.pickup }

// Dropoff returns the dropoff endpoint.
func (d *Delivery) Dropoff() Address { return d.dropoff }

// Fee returns the courier fee as an exact decimal.
func (d *Delivery) Fee() decimal.Decimal { return d.fee }

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status { return d.status }

// Courier returns the assigned courier's ID, or nil if unassigned.
func (d *Delivery) Courier() *kernel.UUID { return d.courierID }

// RequestingCourier returns the courier awaiting approval, or nil.
func (d *Delivery) RequestingCourier() *kernel.UUID { return d.requestingCourierID }

// Approver returns the dispatcher who decided the request, or nil.
func (d *Delivery) Approver() *kernel.UUID { return d.approverID }

// DispatcherDecision returns the recorded dispatcher decision.
func (d *Delivery) DispatcherDecision() Decision { return d.decision }

// CreatedAt returns the creation timestamp.
func (d *Delivery) CreatedAt() time.Time { return d.createdAt }

// RequestedAt returns when the current or last approval request was made.
func (d *Delivery) RequestedAt() *time.Time { return d.requestedAt }

// DecidedAt returns when the dispatcher decision was recorded.
func (d *Delivery) DecidedAt() *time.Time { return d.decidedAt }

// CapturedAt returns when the delivery was captured.
func (d *Delivery) CapturedAt() *time.Time { return d.capturedAt }

// DeliveredAt returns when the delivery was completed.
func (d *Delivery) DeliveredAt() *time.Time { return d.deliveredAt }

// IsStationAffiliated reports whether the delivery is mediated by a station.
// Station deliveries always go through the approval workflow.
func (d *Delivery) IsStationAffiliated() bool {
	return d.stationID != nil
}

// IsOwnedBy reports whether the given courier currently holds the delivery.
func (d *Delivery) IsOwnedBy(courierID kernel.UUID) bool {
	return d.courierID != nil && d.courierID.IsEqual(courierID)
}

// Capture assigns the delivery to the courier and records the capture time.
//
// Legal from Open, and from PendingApproval when the capturing courier is the
// one whose request is pending (the approval path). The wallet debit that must
// accompany this transition is the caller's responsibility and commits in the
// same transaction.
func (d *Delivery) Capture(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if d.status == StatusPendingApproval &&
		(d.requestingCourierID == nil || !d.requestingCourierID.IsEqual(courierID)) {
		return ErrNotRequester
	}

	newStatus, err := d.status.Capture()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.courierID = &courierID
	d.requestingCourierID = nil
	d.capturedAt = &now
	return nil
}

// RequestApproval places a station delivery into PendingApproval on behalf of
// the requesting courier. The second of two concurrent requests observes
// PendingApproval and receives ErrAlreadyPending.
func (d *Delivery) RequestApproval(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.RequestApproval()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.requestingCourierID = &courierID
	d.requestedAt = &now
	return nil
}

// Approve records the dispatcher's positive decision and captures the delivery
// for the requesting courier in one step. Returns the courier that now holds
// the delivery so the caller can debit the matching wallet.
func (d *Delivery) Approve(dispatcherID kernel.UUID, now time.Time) (kernel.UUID, error) {
	if err := dispatcherID.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if d.status != StatusPendingApproval {
		return kernel.UUID{}, ErrNotPendingApproval
	}

	requester := *d.requestingCourierID
	if err := d.Capture(requester, now); err != nil {
		return kernel.UUID{}, err
	}

	d.approverID = &dispatcherID
	d.decision = DecisionApproved
	d.decidedAt = &now
	return requester, nil
}

// Reject records the dispatcher's negative decision and returns the delivery
// to Open. No financial side effects.
func (d *Delivery) Reject(dispatcherID kernel.UUID, now time.Time) error {
	if err := dispatcherID.Validate(); err != nil {
		return err
	}
	if d.status != StatusPendingApproval {
		return ErrNotPendingApproval
	}

	d.status = StatusOpen
	d.requestingCourierID = nil
	d.approverID = &dispatcherID
	d.decision = DecisionRejected
	d.decidedAt = &now
	return nil
}

// Release returns a captured delivery to Open, clearing the courier assignment
// and capture timestamp. Only the owning courier may release. The fee refund
// is the caller's responsibility and commits in the same transaction.
func (d *Delivery) Release(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if d.status == StatusCaptured && !d.IsOwnedBy(courierID) {
		return ErrNotOwner
	}

	newStatus, err := d.status.Release()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.courierID = nil
	d.capturedAt = nil
	return nil
}

// Start marks a captured delivery as in progress. Only the owning courier may start.
func (d *Delivery) Start(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if d.status == StatusCaptured && !d.IsOwnedBy(courierID) {
		return ErrNotOwner
	}

	newStatus, err := d.status.Start()
	if err != nil {
		return err
	}

	d.status = newStatus
	return nil
}

// MarkDelivered completes the delivery and records the delivery time.
// The station commission credit, when applicable, is the caller's
// responsibility and commits in the same transaction.
func (d *Delivery) MarkDelivered(now time.Time) error {
	newStatus, err := d.status.Deliver()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.deliveredAt = &now
	return nil
}

// Cancel withdraws an Open delivery. Any other status is a deliberate no-op:
// the delivery is returned unchanged and the return value reports whether a
// transition happened.
func (d *Delivery) Cancel() bool {
	if d.status != StatusOpen {
		return false
	}
	d.status = StatusCancelled
	return true
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return err
	}
	d.senderID = senderID
	return nil
}

func (d *Delivery) setStationID(stationID *kernel.UUID) error {
	if stationID != nil {
		if err := stationID.Validate(); err != nil {
			return err
		}
	}
	d.stationID = stationID
	return nil
}

func (d *Delivery) setPickup(pickup Address) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	d.pickup = pickup
	return nil
}

func (d *Delivery) setDropoff(dropoff Address) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	d.dropoff = dropoff
	return nil
}

func (d *Delivery) setFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return ErrFeeIsNegative
	}
	d.fee = fee
	return nil
}
