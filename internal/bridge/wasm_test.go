package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/snapshot"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stubModule is a minimal simulation: initWorld(f32, f32, i32, i32) logs
// "hello" through debug.js_log, allocBuffer returns 1024, stepWorld does
// nothing and serializeWorld(ptr, cap) writes an empty snapshot at ptr.
var stubModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,

	// type
	0x01, 0x1b, 0x05,
	0x60, 0x02, 0x7f, 0x7f, 0x00,
	0x60, 0x04, 0x7d, 0x7d, 0x7f, 0x7f, 0x00,
	0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x60, 0x00, 0x00,
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,

	// import debug.js_log
	0x02, 0x10, 0x01,
	0x05, 'd', 'e', 'b', 'u', 'g',
	0x06, 'j', 's', '_', 'l', 'o', 'g',
	0x00, 0x00,

	// function
	0x03, 0x05, 0x04, 0x01, 0x02, 0x03, 0x04,

	// memory
	0x05, 0x03, 0x01, 0x00, 0x01,

	// export
	0x07, 0x41, 0x05,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x09, 'i', 'n', 'i', 't', 'W', 'o', 'r', 'l', 'd', 0x00, 0x01,
	0x0b, 'a', 'l', 'l', 'o', 'c', 'B', 'u', 'f', 'f', 'e', 'r', 0x00, 0x02,
	0x09, 's', 't', 'e', 'p', 'W', 'o', 'r', 'l', 'd', 0x00, 0x03,
	0x0e, 's', 'e', 'r', 'i', 'a', 'l', 'i', 'z', 'e', 'W', 'o', 'r', 'l', 'd', 0x00, 0x04,

	// code
	0x0a, 0x1f, 0x04,
	0x08, 0x00, 0x41, 0x00, 0x41, 0x05, 0x10, 0x00, 0x0b,
	0x05, 0x00, 0x41, 0x80, 0x08, 0x0b,
	0x02, 0x00, 0x0b,
	0x0b, 0x00, 0x20, 0x00, 0x41, 0x00, 0x36, 0x02, 0x00, 0x41, 0x04, 0x0b,

	// data "hello" at 0
	0x0b, 0x0b, 0x01,
	0x00, 0x41, 0x00, 0x0b, 0x05, 'h', 'e', 'l', 'l', 'o',
}

func TestWASMLifecycle(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)

	w, err := NewWASM(ctx, stubModule, DebugSink{Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer w.Close()

	if err := w.Step(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}

	if err := w.Initialize(config.World{Width: 50, Height: 50, Count: 3}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := logs.FilterMessage("hello").Len(); got != 1 {
		t.Errorf("expected module log line, got %d", got)
	}
	if err := w.Initialize(config.World{}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	buf, err := NewBuffer(w, 64)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	if buf.Handle() != 1024 {
		t.Errorf("expected handle 1024, got %d", buf.Handle())
	}
	if _, err := w.AllocateBuffer(64); !errors.Is(err, ErrBufferAllocated) {
		t.Errorf("expected ErrBufferAllocated, got %v", err)
	}

	lease, err := buf.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	b, err := lease.Bytes()
	if err != nil {
		t.Fatalf("lease: %v", err)
	}
	v, err := snapshot.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Count() != 0 {
		t.Errorf("expected empty snapshot, got %d", v.Count())
	}

	if err := buf.Advance(); err != nil {
		t.Errorf("advance: %v", err)
	}
	if _, err := w.Serialize(Handle(7), 64); !errors.Is(err, ErrNoBuffer) {
		t.Errorf("expected ErrNoBuffer, got %v", err)
	}
}

func TestWASMMemoryOutOfBounds(t *testing.T) {
	w, err := NewWASM(context.Background(), stubModule, DebugSink{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer w.Close()

	if _, err := w.Memory(Handle(65530), 64); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}
