package bridge

import "fmt"

// Buffer owns the single snapshot allocation inside the simulation. Every
// write to it, through Serialize or Advance, invalidates outstanding leases.
type Buffer struct {
	sim      Simulation
	handle   Handle
	capacity uint32
	gen      uint64
}

// NewBuffer allocates the snapshot buffer. It must be called once per
// simulation.
func NewBuffer(sim Simulation, capacity uint32) (*Buffer, error) {
	h, err := sim.AllocateBuffer(capacity)
	if err != nil {
		return nil, fmt.Errorf("allocate %d byte buffer: %w", capacity, err)
	}
	return &Buffer{sim: sim, handle: h, capacity: capacity}, nil
}

func (b *Buffer) Handle() Handle   { return b.handle }
func (b *Buffer) Capacity() uint32 { return b.capacity }

// Serialize writes the current simulation state and returns a read-only
// lease over exactly the bytes written.
func (b *Buffer) Serialize() (*Lease, error) {
	b.gen++
	n, err := b.sim.Serialize(b.handle, b.capacity)
	if err != nil {
		return nil, err
	}
	if n > b.capacity {
		return nil, &OverflowError{Written: n, Capacity: b.capacity}
	}
	mem, err := b.sim.Memory(b.handle, n)
	if err != nil {
		return nil, err
	}
	return &Lease{buf: b, gen: b.gen, bytes: mem}, nil
}

// Advance steps the simulation once.
func (b *Buffer) Advance() error {
	b.gen++
	return b.sim.Step()
}

// Lease borrows one serialized snapshot. It is valid until the next
// Serialize or Advance on its buffer.
type Lease struct {
	buf   *Buffer
	gen   uint64
	bytes []byte
}

func (l *Lease) Valid() bool {
	return l.buf.gen == l.gen
}

func (l *Lease) Bytes() ([]byte, error) {
	if !l.Valid() {
		return nil, ErrStaleLease
	}
	return l.bytes, nil
}

func (l *Lease) Len() int { return len(l.bytes) }
