package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating the zero UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString or UUIDFromRaw")

// UUID identifies orders, parties and stock entries.
// The zero value is invalid; use NewUUID, UUIDFromString or UUIDFromRaw.
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (v4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical, braced, urn or hyphenless forms.
// The nil UUID is rejected.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("invalid UUID format: %w", err))
	}
	return UUIDFromRaw(id)
}

// UUIDFromRaw wraps a google/uuid value loaded from storage or a token.
func UUIDFromRaw(id uuid.UUID) (UUID, error) {
	u := UUID{id: id}
	if err := u.Validate(); err != nil {
		return UUID{}, err
	}
	return u, nil
}

// String returns the canonical hyphenated form.
func (u UUID) String() string {
	return u.id.String()
}

// Raw exposes the underlying value for persistence adapters.
func (u UUID) Raw() uuid.UUID {
	return u.id
}

// IsEqual compares two identifiers by value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate rejects the nil UUID.
//
// Returns:
//   - nil for any non-nil identifier
//   - ErrUUIDIsNotConstructed for the zero value
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// MarshalText renders the canonical form so UUIDs can be used directly in JSON payloads.
func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.id.String()), nil
}

// UnmarshalText accepts every form UUIDFromString does and rejects the nil UUID.
func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := UUIDFromString(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
