// Package party is the read-only projection of marketplace participants owned
// by the identity subsystem.
package party

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Role is the kind of participant an authenticated actor acts as.
type Role string

const (
	// RoleRequester places orders and owns a cart.
	RoleRequester Role = "requester"
	RoleProvider  Role = "provider"
	RoleCourier   Role = "courier"
)

// ParseRole converts a token claim or stored column into a Role.
//
// Returns:
//   - Role: The parsed role
//   - error: ValueIsInvalid for anything but requester, provider or courier
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleRequester, RoleProvider, RoleCourier:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a marketplace role", s))
	}
}

// String returns the wire name of the role.
func (r Role) String() string {
	return string(r)
}

// Party is a registered participant. Location is nil when the participant
// never registered coordinates.
type Party struct {
	id       kernel.UUID
	role     Role
	name     string
	address  string
	location *kernel.Location
}

// RestoreParty rebuilds a participant from the identity tables.
//
// Parameters:
//   - id: Participant identifier (must be valid UUID)
//   - role: One of the marketplace roles
//   - name: Display name
//   - address: Free-form address, may be empty
//   - location: Registered coordinates, or nil when unknown
//
// Returns:
//   - *Party: The participant
//   - error: Validation error for an invalid id or role
func RestoreParty(id kernel.UUID, role Role, name, address string, location *kernel.Location) (*Party, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	return &Party{id: id, role: role, name: name, address: address, location: location}, nil
}

// ID returns the participant identifier.
func (p *Party) ID() kernel.UUID {
	return p.id
}

// Role returns the participant's role.
func (p *Party) Role() Role {
	return p.role
}

// Name returns the display name.
func (p *Party) Name() string {
	return p.name
}

// Address returns the free-form address, possibly empty.
func (p *Party) Address() string {
	return p.address
}

// Location returns the registered coordinates, or nil.
func (p *Party) Location() *kernel.Location {
	return p.location
}
