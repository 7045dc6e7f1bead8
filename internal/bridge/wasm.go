package bridge

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/flockview/internal/config"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// Exports the compiled simulation must provide.
const (
	ExportInit      = "initWorld"
	ExportAlloc     = "allocBuffer"
	ExportStep      = "stepWorld"
	ExportSerialize = "serializeWorld"

	debugModule = "debug"
)

// WASM runs the compiled flock simulation inside a wazero runtime. The
// module imports a "debug" host module with js_log, js_err and log_write,
// each taking a (pointer, length) pair into module memory.
type WASM struct {
	ctx     context.Context
	runtime wazero.Runtime
	mod     api.Module
	log     *zap.Logger

	initFn, allocFn, stepFn, serializeFn api.Function

	initialized bool
	allocated   bool
	handle      Handle
}

// LoadWASM reads and instantiates the module at path. ctx bounds every
// later call into the module.
func LoadWASM(ctx context.Context, path string, sink DebugSink) (*WASM, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read simulation module: %w", err)
	}
	return NewWASM(ctx, src, sink)
}

func NewWASM(ctx context.Context, src []byte, sink DebugSink) (*WASM, error) {
	r := wazero.NewRuntime(ctx)

	_, err := r.NewHostModuleBuilder(debugModule).
		NewFunctionBuilder().WithFunc(hostLog(sink.Log)).Export("js_log").
		NewFunctionBuilder().WithFunc(hostLog(sink.Err)).Export("js_err").
		NewFunctionBuilder().WithFunc(hostLog(sink.Write)).Export("log_write").
		Instantiate(ctx)
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("instantiate debug host module: %w", err)
	}

	mod, err := r.InstantiateWithConfig(ctx, src, wazero.NewModuleConfig().WithName("boid-sim"))
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("instantiate simulation module: %w", err)
	}

	w := &WASM{ctx: ctx, runtime: r, mod: mod, log: sink.Logger}
	exports := []struct {
		name string
		fn   *api.Function
	}{
		{ExportInit, &w.initFn},
		{ExportAlloc, &w.allocFn},
		{ExportStep, &w.stepFn},
		{ExportSerialize, &w.serializeFn},
	}
	for _, e := range exports {
		fn := mod.ExportedFunction(e.name)
		if fn == nil {
			r.Close(ctx)
			return nil, fmt.Errorf("%w: %s", ErrMissingExport, e.name)
		}
		*e.fn = fn
	}
	if mod.Memory() == nil {
		r.Close(ctx)
		return nil, fmt.Errorf("%w: memory", ErrMissingExport)
	}

	return w, nil
}

func hostLog(sink func([]byte)) func(context.Context, api.Module, uint32, uint32) {
	return func(_ context.Context, m api.Module, ptr, n uint32) {
		b, ok := m.Memory().Read(ptr, n)
		if !ok {
			return
		}
		sink(b)
	}
}

func (w *WASM) Initialize(world config.World) error {
	if w.initialized {
		return ErrAlreadyInitialized
	}
	args, err := encodeArgs(w.initFn, world.Width, world.Height, world.Seed, world.Count)
	if err != nil {
		return err
	}
	if _, err := w.initFn.Call(w.ctx, args...); err != nil {
		return fmt.Errorf("%s: %w", ExportInit, err)
	}
	w.initialized = true
	w.log.Info("simulation initialized",
		zap.Float64("width", world.Width),
		zap.Float64("height", world.Height),
		zap.Int64("seed", world.Seed),
		zap.Uint32("count", world.Count),
	)
	return nil
}

func (w *WASM) AllocateBuffer(capacity uint32) (Handle, error) {
	if !w.initialized {
		return 0, ErrNotInitialized
	}
	if w.allocated {
		return 0, ErrBufferAllocated
	}
	args, err := encodeArgs(w.allocFn, capacity)
	if err != nil {
		return 0, err
	}
	res, err := w.allocFn.Call(w.ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ExportAlloc, err)
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("%s: no result", ExportAlloc)
	}
	w.handle = Handle(uint32(res[0]))
	w.allocated = true
	return w.handle, nil
}

func (w *WASM) Step() error {
	if !w.initialized {
		return ErrNotInitialized
	}
	if _, err := w.stepFn.Call(w.ctx); err != nil {
		return fmt.Errorf("%s: %w", ExportStep, err)
	}
	return nil
}

func (w *WASM) Serialize(h Handle, capacity uint32) (uint32, error) {
	if !w.allocated || h != w.handle {
		return 0, ErrNoBuffer
	}
	args, err := encodeArgs(w.serializeFn, uint32(h), capacity)
	if err != nil {
		return 0, err
	}
	res, err := w.serializeFn.Call(w.ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ExportSerialize, err)
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("%s: no result", ExportSerialize)
	}
	return uint32(res[0]), nil
}

func (w *WASM) Memory(h Handle, n uint32) ([]byte, error) {
	b, ok := w.mod.Memory().Read(uint32(h), n)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes at %#x", ErrOutOfBounds, n, uint32(h))
	}
	return b, nil
}

func (w *WASM) Close() error {
	return w.runtime.Close(w.ctx)
}

// encodeArgs converts Go numbers to the value types the export declares,
// so the same host works whether the module takes f32 or i32 dimensions.
func encodeArgs(fn api.Function, values ...any) ([]uint64, error) {
	def := fn.Definition()
	types := def.ParamTypes()
	if len(types) != len(values) {
		return nil, fmt.Errorf("%s: module declares %d params, host passes %d", def.Name(), len(types), len(values))
	}
	out := make([]uint64, len(values))
	for i, t := range types {
		switch t {
		case api.ValueTypeI32:
			out[i] = api.EncodeI32(int32(asInt(values[i])))
		case api.ValueTypeI64:
			out[i] = api.EncodeI64(asInt(values[i]))
		case api.ValueTypeF32:
			out[i] = api.EncodeF32(float32(asFloat(values[i])))
		case api.ValueTypeF64:
			out[i] = api.EncodeF64(asFloat(values[i]))
		default:
			return nil, fmt.Errorf("%s: unsupported param type %s", def.Name(), api.ValueTypeName(t))
		}
	}
	return out, nil
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint32:
		return int64(n)
	case float64:
		return int64(n)
	}
	panic(fmt.Sprintf("bridge: unsupported argument type %T", v))
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case uint32:
		return float64(n)
	case float64:
		return n
	}
	panic(fmt.Sprintf("bridge: unsupported argument type %T", v))
}
