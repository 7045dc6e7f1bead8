// Package record stores sequences of raw snapshots in a zstd-compressed
// file so a flock can be replayed without the simulation module.
//
// Layout of the decompressed stream: one JSON header line, then frames, each
// a little-endian uint32 length followed by that many snapshot bytes.
package record

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/san-kum/flockview/internal/config"
)

const Version = 1

// maxFrameSize bounds a single frame so a corrupt length cannot trigger a
// huge allocation.
var maxFrameSize = 256 * 1024 * 1024

var (
	ErrVersion  = errors.New("record: unsupported recording version")
	ErrFrameLen = errors.New("record: frame length exceeds limit")
)

type Header struct {
	Version int          `json:"version"`
	World   config.World `json:"world"`
	Created time.Time    `json:"created"`
}

type Writer struct {
	f      *os.File
	enc    *zstd.Encoder
	bw     *bufio.Writer
	frames int
}

func Create(path string, world config.World) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, err
	}
	w := &Writer{f: f, enc: enc, bw: bufio.NewWriterSize(enc, 256*1024)}

	hb, err := json.Marshal(Header{Version: Version, World: world, Created: time.Now().UTC()})
	if err != nil {
		w.Close()
		return nil, err
	}
	if _, err := w.bw.Write(append(hb, '\n')); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// WriteFrame appends one encoded snapshot. b is copied before returning.
func (w *Writer) WriteFrame(b []byte) error {
	if len(b) > maxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameLen, len(b))
	}
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(b)))
	if _, err := w.bw.Write(n[:]); err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	w.frames++
	return nil
}

func (w *Writer) Frames() int { return w.frames }

func (w *Writer) Close() error {
	ferr := w.bw.Flush()
	eerr := w.enc.Close()
	cerr := w.f.Close()
	return errors.Join(ferr, eerr, cerr)
}

type Reader struct {
	f      *os.File
	dec    *zstd.Decoder
	br     *bufio.Reader
	header Header
	frame  []byte
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r := &Reader{f: f, dec: dec, br: bufio.NewReaderSize(dec, 256*1024)}
	if err := r.readHeader(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeader() error {
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return fmt.Errorf("decode header: %w", err)
	}
	if h.Version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	r.header = h
	return nil
}

func (r *Reader) Header() Header { return r.header }

// Next returns the next frame, or io.EOF after the last one. The returned
// slice is reused by the following call.
func (r *Reader) Next() ([]byte, error) {
	var n [4]byte
	if _, err := io.ReadFull(r.br, n[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated frame length: %w", err)
		}
		return nil, err
	}
	size := binary.LittleEndian.Uint32(n[:])
	if int64(size) > int64(maxFrameSize) {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameLen, size)
	}
	if cap(r.frame) < int(size) {
		r.frame = make([]byte, size)
	}
	r.frame = r.frame[:size]
	if _, err := io.ReadFull(r.br, r.frame); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("truncated frame: %w", err)
	}
	return r.frame, nil
}

// Rewind repositions the reader at the first frame.
func (r *Reader) Rewind() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := r.dec.Reset(r.f); err != nil {
		return err
	}
	r.br.Reset(r.dec)
	return r.readHeader()
}

func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
