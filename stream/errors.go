package stream

import "errors"

var (
	// ErrNotFound is returned when a target element is not a member of the
	// container (or, for recursive operations, of any nested container).
	ErrNotFound = errors.New("element not found in stream")

	// ErrStructuralViolation is returned for operations that would corrupt
	// the container: inserting a stream into itself, double membership in
	// the same container, storing a sounding element at the end, or moving
	// an end element numerically.
	ErrStructuralViolation = errors.New("stream structure violation")

	// ErrInvalidArgument is returned for malformed requests such as nil
	// elements, negative offsets where they are not meaningful, or option
	// combinations that contradict each other.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAmbiguousOverlap is returned when an operation needs a unique
	// element at an offset but finds several.
	ErrAmbiguousOverlap = errors.New("more than one element found at offset")
)
