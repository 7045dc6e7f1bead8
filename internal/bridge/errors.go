package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyInitialized indicates a second Initialize call.
	ErrAlreadyInitialized = errors.New("bridge: simulation already initialized")

	// ErrNotInitialized indicates an operation before Initialize.
	ErrNotInitialized = errors.New("bridge: simulation not initialized")

	// ErrBufferAllocated indicates a second AllocateBuffer call.
	ErrBufferAllocated = errors.New("bridge: snapshot buffer already allocated")

	// ErrNoBuffer indicates a handle that was never allocated.
	ErrNoBuffer = errors.New("bridge: unknown snapshot buffer")

	// ErrOverflow indicates a snapshot larger than the buffer capacity.
	ErrOverflow = errors.New("bridge: snapshot exceeds buffer capacity")

	// ErrOutOfBounds indicates a memory read past the end of module memory.
	ErrOutOfBounds = errors.New("bridge: read outside simulation memory")

	// ErrStaleLease indicates a lease read after the buffer was rewritten.
	ErrStaleLease = errors.New("bridge: snapshot lease invalidated by a later write")

	// ErrMissingExport indicates the module lacks a required export.
	ErrMissingExport = errors.New("bridge: module export missing")
)

// OverflowError reports how far a snapshot overran its buffer.
type OverflowError struct {
	Written  uint32
	Capacity uint32
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("bridge: snapshot of %d bytes exceeds capacity %d", e.Written, e.Capacity)
}

func (e *OverflowError) Unwrap() error {
	return ErrOverflow
}
