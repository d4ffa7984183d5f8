// Package kernel holds the value objects shared by every aggregate of the
// marketplace: UUID identifiers and geographic Locations.
//
// Both types have an invalid zero value and must be built through their
// constructors; Validate reports objects that bypassed them.
package kernel
