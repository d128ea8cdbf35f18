package courier

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrChatIDIsRequired is returned when attempting to create a courier without
	// a platform chat identifier.
	ErrChatIDIsRequired = errs.NewValueIsRequiredError("chat id")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")

	// ErrNotApproved is the typed business failure for a courier who has not been
	// approved to take station deliveries.
	ErrNotApproved = errs.NewDomainRuleError("courier is not approved")
)

// Courier represents a courier registered on one messaging platform.
//
// The core consults the courier for two things only: whether they are approved
// to request station-mediated deliveries, and where to reach them for
// notifications (platform + chat id, also used when a broadcast fans out to all
// active couriers). Authentication and profile management live outside the core.
type Courier struct {
	id       kernel.UUID
	name     string
	platform outbox.Platform
	chatID   string
	approved bool
	active   bool

	isConstructed bool
}

// NewCourier creates an active, unapproved courier.
func NewCourier(id kernel.UUID, name string, platform outbox.Platform, chatID string) (*Courier, error) {
	c := &Courier{
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setPlatform(platform),
		c.setChatID(chatID),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a courier from persistence.
func RestoreCourier(
	id kernel.UUID,
	name string,
	platform outbox.Platform,
	chatID string,
	approved bool,
	active bool,
) (*Courier, error) {
	c, err := NewCourier(id, name, platform, chatID)
	if err != nil {
		return nil, err
	}

	c.approved = approved
	c.active = active
	return c, nil
}

// Validate ensures the Courier instance was properly constructed.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID { return c.id }

// Name returns the courier's display name.
func (c *Courier) Name() string { return c.name }

// Platform returns the messaging platform the courier is reachable on.
func (c *Courier) Platform() outbox.Platform { return c.platform }

// ChatID returns the platform-specific chat identifier.
func (c *Courier) ChatID() string { return c.chatID }

// IsApproved reports whether the courier may request station deliveries.
func (c *Courier) IsApproved() bool { return c.approved }

// IsActive reports whether the courier receives broadcast notifications.
func (c *Courier) IsActive() bool { return c.active }

// Approve grants the courier access to station-mediated deliveries.
func (c *Courier) Approve() { c.approved = true }

// Deactivate removes the courier from broadcast fan-out.
func (c *Courier) Deactivate() { c.active = false }

// EnsureApproved returns a typed business failure when the courier has not
// been approved for station deliveries.
func (c *Courier) EnsureApproved() error {
	if !c.approved {
		return ErrNotApproved
	}
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setPlatform(platform outbox.Platform) error {
	if err := platform.Validate(); err != nil {
		return err
	}
	c.platform = platform
	return nil
}

func (c *Courier) setChatID(chatID string) error {
	if chatID == "" {
		return ErrChatIDIsRequired
	}
	c.chatID = chatID
	return nil
}
