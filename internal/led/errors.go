package led

import "errors"

// Domain-specific errors for indicator operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUnavailable is returned when the pixel peripheral is not
	// initialised. All operations become no-ops returning this.
	ErrUnavailable = errors.New("led: pixel peripheral unavailable")

	// ErrInvalidEffect is returned when an effect configuration names
	// an unknown effect kind.
	ErrInvalidEffect = errors.New("led: invalid effect configuration")

	// ErrInvalidStatus is returned when a status value outside the
	// known enumeration is applied.
	ErrInvalidStatus = errors.New("led: invalid status")
)
