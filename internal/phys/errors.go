package phys

import "errors"

// Domain errors for body construction and world lifecycle.
var (
	// ErrInvalidExtents indicates a non-positive or non-finite half-extent.
	ErrInvalidExtents = errors.New("phys: body extents must be positive and finite")

	// ErrInvalidState indicates a NaN or Inf position/velocity component.
	ErrInvalidState = errors.New("phys: body state contains NaN or Inf")

	// ErrInvalidProperties indicates a bounce or slide factor outside [0,1].
	ErrInvalidProperties = errors.New("phys: bounce and slide factors must be in [0,1]")

	// ErrWorldClosed indicates an operation on a closed world.
	ErrWorldClosed = errors.New("phys: world is closed")
)
