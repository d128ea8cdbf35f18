package delivery

import "dispatch/internal/pkg/errs"

// Address is a value object holding one endpoint of a delivery:
// where to go and who to ask for. The core treats the contact details as
// opaque; only the street is required.
type Address struct {
	street  string
	contact string
	phone   string
}

// NewAddress creates an Address. Street must not be empty.
func NewAddress(street, contact, phone string) (Address, error) {
	if street == "" {
		return Address{}, errs.NewValueIsRequiredError("street")
	}
	return Address{street: street, contact: contact, phone: phone}, nil
}

// Street returns the street portion of the address.
func (a Address) Street() string { return a.street }

// Contact returns the contact person's name, possibly empty.
func (a Address) Contact() string { return a.contact }

// Phone returns the contact phone number, possibly empty.
func (a Address) Phone() string { return a.phone }

// Validate checks that the address was properly constructed.
func (a Address) Validate() error {
	if a.street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	return nil
}
