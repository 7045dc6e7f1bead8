// Package snapshot implements the binary agent snapshot protocol written by
// the flock simulation.
//
// Wire format, little-endian throughout, fully packed:
//
//	[uint32 count][count x (float32 x, float32 y, float32 rotation)]
//
// The total length of a well formed snapshot is HeaderSize + RecordSize*count.
// [Decode] never copies: a [View] aliases the bytes it was decoded from and is
// only meaningful until the producer overwrites them.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	HeaderSize = 4
	RecordSize = 12

	offsetX        = 0
	offsetY        = 4
	offsetRotation = 8
)

var (
	// ErrShortHeader indicates fewer than HeaderSize bytes were supplied.
	ErrShortHeader = errors.New("snapshot: buffer shorter than header")

	// ErrLength indicates the byte length disagrees with the encoded count.
	ErrLength = errors.New("snapshot: byte length does not match record count")
)

// LengthError carries the counts involved in a malformed snapshot.
type LengthError struct {
	Count    uint32
	Expected int
	Got      int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("snapshot: count %d needs %d bytes, got %d", e.Count, e.Expected, e.Got)
}

func (e *LengthError) Unwrap() error {
	return ErrLength
}

// Record is one decoded agent.
type Record struct {
	X, Y     float32
	Rotation float32
}

// Size returns the encoded length of a snapshot holding count records.
func Size(count int) int {
	return HeaderSize + RecordSize*count
}

// View is a read-only, non-owning window over one encoded snapshot.
type View struct {
	count uint32
	raw   []byte
}

// Decode validates b and returns a view over it. A zero count yields an
// empty view whatever follows the header; any other count must account for
// every byte exactly.
func Decode(b []byte) (View, error) {
	if len(b) < HeaderSize {
		return View{}, ErrShortHeader
	}
	count := binary.LittleEndian.Uint32(b)
	if count == 0 {
		return View{}, nil
	}
	expected := uint64(HeaderSize) + uint64(RecordSize)*uint64(count)
	if uint64(len(b)) != expected {
		return View{}, &LengthError{Count: count, Expected: int(expected), Got: len(b)}
	}
	return View{count: count, raw: b[HeaderSize:]}, nil
}

func (v View) Count() int { return int(v.count) }

// Raw returns the packed record bytes, exactly RecordSize*Count() long.
// The slice aliases the decoded buffer.
func (v View) Raw() []byte { return v.raw }

// Record decodes the i-th agent. It panics if i is out of range, like a
// slice index would.
func (v View) Record(i int) Record {
	if i < 0 || i >= int(v.count) {
		panic(fmt.Sprintf("snapshot: record index %d out of range [0,%d)", i, v.count))
	}
	r := v.raw[i*RecordSize : (i+1)*RecordSize]
	return Record{
		X:        math.Float32frombits(binary.LittleEndian.Uint32(r[offsetX:])),
		Y:        math.Float32frombits(binary.LittleEndian.Uint32(r[offsetY:])),
		Rotation: math.Float32frombits(binary.LittleEndian.Uint32(r[offsetRotation:])),
	}
}

// Each calls fn for every record in emitted order, stopping early when fn
// returns false.
func (v View) Each(fn func(i int, r Record) bool) {
	for i := 0; i < int(v.count); i++ {
		if !fn(i, v.Record(i)) {
			return
		}
	}
}

// Records copies every record out of the view.
func (v View) Records() []Record {
	out := make([]Record, v.count)
	for i := range out {
		out[i] = v.Record(i)
	}
	return out
}

// Encode writes records in wire format into a new slice.
func Encode(records []Record) []byte {
	b := make([]byte, HeaderSize, Size(len(records)))
	binary.LittleEndian.PutUint32(b, uint32(len(records)))
	for _, r := range records {
		b = AppendRecord(b, r)
	}
	return b
}

// AppendRecord appends the packed form of r to b. It does not touch the
// header count.
func AppendRecord(b []byte, r Record) []byte {
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.X))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(r.Y))
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(r.Rotation))
}
