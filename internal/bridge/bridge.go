// Package bridge is the boundary to the external flock simulation.
//
// The simulation is opaque: it is initialized once, hands out one buffer in
// its own memory, advances by discrete steps and serializes its agents into
// that buffer in the snapshot wire format. Every implementation of
// [Simulation] is single-threaded; callers must not overlap Step or
// Serialize with a read of the buffer.
//
// Implementations:
//
//   - [WASM]: hosts the compiled simulation module with wazero
//   - [Replay]: plays back a recorded snapshot stream
//   - bridgetest.Scripted: deterministic fake for tests
package bridge

import "github.com/san-kum/flockview/internal/config"

// Handle is an opaque offset into simulation memory.
type Handle uint32

type Simulation interface {
	// Initialize establishes world state. It may be called once.
	Initialize(world config.World) error

	// AllocateBuffer reserves the snapshot buffer. It may be called once and
	// the handle stays valid for the life of the simulation.
	AllocateBuffer(capacity uint32) (Handle, error)

	// Step advances the simulation by one tick.
	Step() error

	// Serialize writes the current snapshot at h and reports the bytes
	// written. A result above capacity means the snapshot did not fit.
	Serialize(h Handle, capacity uint32) (uint32, error)

	// Memory borrows n bytes of simulation memory starting at h. The slice
	// aliases simulation memory and is invalidated by the next Step or
	// Serialize.
	Memory(h Handle, n uint32) ([]byte, error)
}
