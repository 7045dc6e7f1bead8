package bridge

import (
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/record"
	"go.uber.org/zap"
)

// Replay stands in for the simulation by playing a recording, one frame per
// Step, looping at the end. Its memory is a plain byte slice of the
// requested capacity.
type Replay struct {
	r   *record.Reader
	log *zap.Logger

	initialized bool
	mem         []byte
	frame       []byte
	frameIndex  int
	loops       int
}

func OpenReplay(path string, log *zap.Logger) (*Replay, error) {
	r, err := record.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	p := &Replay{r: r, log: log}
	if err := p.advance(); err != nil {
		r.Close()
		return nil, err
	}
	return p, nil
}

// World reports the world the recording was made with.
func (p *Replay) World() config.World { return p.r.Header().World }

func (p *Replay) Initialize(world config.World) error {
	if p.initialized {
		return ErrAlreadyInitialized
	}
	if rec := p.World(); rec != world {
		p.log.Warn("replay world differs from configured world",
			zap.Any("recorded", rec),
			zap.Any("configured", world),
		)
	}
	p.initialized = true
	return nil
}

func (p *Replay) AllocateBuffer(capacity uint32) (Handle, error) {
	if !p.initialized {
		return 0, ErrNotInitialized
	}
	if p.mem != nil {
		return 0, ErrBufferAllocated
	}
	p.mem = make([]byte, capacity)
	return 0, nil
}

func (p *Replay) Step() error {
	if !p.initialized {
		return ErrNotInitialized
	}
	return p.advance()
}

// Serialize copies the current frame into the buffer. An oversized frame is
// reported by size and nothing is copied.
func (p *Replay) Serialize(h Handle, capacity uint32) (uint32, error) {
	if p.mem == nil || h != 0 {
		return 0, ErrNoBuffer
	}
	n := uint32(len(p.frame))
	if n > capacity || n > uint32(len(p.mem)) {
		return n, nil
	}
	copy(p.mem, p.frame)
	return n, nil
}

func (p *Replay) Memory(h Handle, n uint32) ([]byte, error) {
	if p.mem == nil || h != 0 {
		return nil, ErrNoBuffer
	}
	if n > uint32(len(p.mem)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfBounds, n)
	}
	return p.mem[:n], nil
}

// Loops counts how many times playback wrapped around.
func (p *Replay) Loops() int { return p.loops }

func (p *Replay) advance() error {
	b, err := p.r.Next()
	if errors.Is(err, io.EOF) {
		if p.frameIndex == 0 {
			return fmt.Errorf("recording has no frames")
		}
		if err := p.r.Rewind(); err != nil {
			return fmt.Errorf("rewind recording: %w", err)
		}
		p.loops++
		p.frameIndex = 0
		b, err = p.r.Next()
	}
	if err != nil {
		return fmt.Errorf("read frame %d: %w", p.frameIndex, err)
	}
	p.frame = b
	p.frameIndex++
	return nil
}

func (p *Replay) Close() error {
	return p.r.Close()
}
