// Package bridgetest provides a deterministic stand-in for the flock
// simulation.
package bridgetest

import (
	"fmt"

	"github.com/san-kum/flockview/internal/bridge"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/snapshot"
)

// Scripted serves canned snapshots. Serialize writes the current frame and
// Step moves to the next one, wrapping at the end. Like the real module it
// performs no bounds check on Serialize: bytes past capacity are dropped
// but the full size is still reported.
type Scripted struct {
	Frames [][]byte

	// Trace, if set, is called with the operation name on every call.
	Trace func(op string)

	// StepErr, if set, is returned from every Step.
	StepErr error

	World      config.World
	Steps      int
	Serializes int

	initialized bool
	mem         []byte
	frame       int
}

var _ bridge.Simulation = (*Scripted)(nil)

func New(frames ...[]byte) *Scripted {
	return &Scripted{Frames: frames}
}

// FromRecords encodes each record set as one frame.
func FromRecords(frames ...[]snapshot.Record) *Scripted {
	s := &Scripted{}
	for _, f := range frames {
		s.Frames = append(s.Frames, snapshot.Encode(f))
	}
	return s
}

// Frame reports the index of the frame the next Serialize will write.
func (s *Scripted) Frame() int { return s.frame }

func (s *Scripted) trace(op string) {
	if s.Trace != nil {
		s.Trace(op)
	}
}

func (s *Scripted) Initialize(world config.World) error {
	s.trace("initialize")
	if s.initialized {
		return bridge.ErrAlreadyInitialized
	}
	s.initialized = true
	s.World = world
	return nil
}

func (s *Scripted) AllocateBuffer(capacity uint32) (bridge.Handle, error) {
	s.trace("allocate")
	if !s.initialized {
		return 0, bridge.ErrNotInitialized
	}
	if s.mem != nil {
		return 0, bridge.ErrBufferAllocated
	}
	s.mem = make([]byte, capacity)
	return 8, nil
}

func (s *Scripted) Step() error {
	s.trace("step")
	if s.StepErr != nil {
		return s.StepErr
	}
	s.Steps++
	if len(s.Frames) > 0 {
		s.frame = (s.frame + 1) % len(s.Frames)
	}
	return nil
}

func (s *Scripted) Serialize(h bridge.Handle, capacity uint32) (uint32, error) {
	s.trace("serialize")
	if s.mem == nil || h != 8 {
		return 0, bridge.ErrNoBuffer
	}
	s.Serializes++
	if len(s.Frames) == 0 {
		return 0, fmt.Errorf("bridgetest: no frames scripted")
	}
	f := s.Frames[s.frame]
	copy(s.mem[:min(int(capacity), len(s.mem))], f)
	return uint32(len(f)), nil
}

func (s *Scripted) Memory(h bridge.Handle, n uint32) ([]byte, error) {
	if s.mem == nil || h != 8 {
		return nil, bridge.ErrNoBuffer
	}
	if n > uint32(len(s.mem)) {
		return nil, bridge.ErrOutOfBounds
	}
	return s.mem[:n], nil
}
