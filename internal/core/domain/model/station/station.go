// Package station provides the dispatch Station aggregate: the intermediary
// that mediates deliveries between senders and couriers, approves or rejects
// courier requests through its dispatchers, and may blacklist couriers.
package station

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrStationNameIsRequired is returned when a station is created without a name.
	ErrStationNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrStationIsNotConstructed is returned when using an improperly initialized Station.
	ErrStationIsNotConstructed = errors.New("Station must be created via NewStation constructor")

	// ErrNotAuthorized is the typed business failure for a dispatcher who is not
	// authorized for the station.
	ErrNotAuthorized = errs.NewDomainRuleError("dispatcher is not authorized for this station")
	// ErrCourierBlacklisted is the typed business failure for a blacklisted courier.
	ErrCourierBlacklisted = errs.NewDomainRuleError("courier is blacklisted by this station")
)

// Station is a dispatch station. Dispatchers decide approval requests for the
// station's deliveries; blacklisted couriers may not request them at all. An
// optional private channel receives closed-card summaries of decided requests.
type Station struct {
	id            kernel.UUID
	name          string
	channelChatID string
	dispatchers   map[kernel.UUID]struct{}
	blacklist     map[kernel.UUID]struct{}

	isConstructed bool
}

// NewStation creates a station. channelChatID may be empty when the station
// has no private channel configured.
func NewStation(id kernel.UUID, name string, channelChatID string) (*Station, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrStationNameIsRequired
	}

	return &Station{
		id:            id,
		name:          name,
		channelChatID: channelChatID,
		dispatchers:   make(map[kernel.UUID]struct{}),
		blacklist:     make(map[kernel.UUID]struct{}),
		isConstructed: true,
	}, nil
}

// RestoreStation reconstructs a station from persistence.
func RestoreStation(
	id kernel.UUID,
	name string,
	channelChatID string,
	dispatcherIDs []kernel.UUID,
	blacklistedCourierIDs []kernel.UUID,
) (*Station, error) {
	s, err := NewStation(id, name, channelChatID)
	if err != nil {
		return nil, err
	}

	for _, dispatcherID := range dispatcherIDs {
		if err := s.AddDispatcher(dispatcherID); err != nil {
			return nil, err
		}
	}
	for _, courierID := range blacklistedCourierIDs {
		if err := s.BlacklistCourier(courierID); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Validate ensures the Station instance was properly constructed.
func (s *Station) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStationIsNotConstructed
	}
	return nil
}

// ID returns the station's unique identifier.
func (s *Station) ID() kernel.UUID { return s.id }

// Name returns the station's display name.
func (s *Station) Name() string { return s.name }

// ChannelChatID returns the private channel chat id, or empty when none is configured.
func (s *Station) ChannelChatID() string { return s.channelChatID }

// HasPrivateChannel reports whether decided requests should be summarized to a channel.
func (s *Station) HasPrivateChannel() bool { return s.channelChatID != "" }

// Dispatchers returns the authorized dispatcher identifiers.
func (s *Station) Dispatchers() []kernel.UUID {
	out := make([]kernel.UUID, 0, len(s.dispatchers))
	for id := range s.dispatchers {
		out = append(out, id)
	}
	return out
}

// BlacklistedCouriers returns the blacklisted courier identifiers.
func (s *Station) BlacklistedCouriers() []kernel.UUID {
	out := make([]kernel.UUID, 0, len(s.blacklist))
	for id := range s.blacklist {
		out = append(out, id)
	}
	return out
}

// AddDispatcher authorizes a dispatcher for this station.
func (s *Station) AddDispatcher(dispatcherID kernel.UUID) error {
	if err := dispatcherID.Validate(); err != nil {
		return err
	}
	s.dispatchers[dispatcherID] = struct{}{}
	return nil
}

// BlacklistCourier bars a courier from requesting this station's deliveries.
func (s *Station) BlacklistCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	s.blacklist[courierID] = struct{}{}
	return nil
}

// EnsureDispatcherAuthorized returns a typed business failure when the
// dispatcher is not authorized for this station.
func (s *Station) EnsureDispatcherAuthorized(dispatcherID kernel.UUID) error {
	if _, ok := s.dispatchers[dispatcherID]; !ok {
		return ErrNotAuthorized
	}
	return nil
}

// EnsureCourierAllowed returns a typed business failure when the courier is
// blacklisted by this station.
func (s *Station) EnsureCourierAllowed(courierID kernel.UUID) error {
	if _, ok := s.blacklist[courierID]; ok {
		return ErrCourierBlacklisted
	}
	return nil
}
