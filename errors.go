package vdsmerge

import "errors"

// Common errors.
var (
	ErrInvalidOrder        = errors.New("invalid order")
	ErrShapeMismatch       = errors.New("shape mismatch")
	ErrReshapeSizeMismatch = errors.New("reshape size mismatch")
	ErrInvalidAxis         = errors.New("axis out of range")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrShapeOverflow       = errors.New("shape size overflow")
	ErrInvalidSelection    = errors.New("invalid selection")
	ErrNotHyperslab        = errors.New("selection is not a hyperslab")
	ErrOverlappingFill     = errors.New("fill regions overlap")
	ErrIncompleteFill      = errors.New("fill does not cover the output")
)
