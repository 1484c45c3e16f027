// Package domain contains the core types shared across the application.
package domain

// Availability is the tri-state stock status of a catalog product. The
// source catalog does not always report availability, so "unknown" is a
// first-class value and never participates in change detection.
type Availability string

// Availability values.
const (
	AvailabilityUnknown    Availability = "unknown"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityInStock    Availability = "in_stock"
)

// Known returns true if availability was actually reported by the source.
func (a Availability) Known() bool {
	return a == AvailabilityInStock || a == AvailabilityOutOfStock
}

// AvailabilityFromBool maps a nullable boolean, as stored or scraped, to
// the tri-state value.
func AvailabilityFromBool(b *bool) Availability {
	switch {
	case b == nil:
		return AvailabilityUnknown
	case *b:
		return AvailabilityInStock
	default:
		return AvailabilityOutOfStock
	}
}

// Bool maps the tri-state value back to a nullable boolean.
func (a Availability) Bool() *bool {
	switch a {
	case AvailabilityInStock:
		v := true
		return &v
	case AvailabilityOutOfStock:
		v := false
		return &v
	}
	return nil
}

// Product is one entry of the catalog snapshot. Name is the identity key
// within a snapshot; the whole product table is replaced wholesale on
// every watcher cycle.
type Product struct {
	Name         string
	Availability Availability
	Link         string
}
