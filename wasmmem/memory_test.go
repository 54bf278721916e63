package wasmmem

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/fixcodec/errors"
)

// One page of memory exported as "memory".
var memoryWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1 page
	0x07, 0x0a, 0x01, 0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00, // export "memory"
}

// Minimal module with no memory.
var minimalWasm = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
}

const pageSize = 65536

func newMemory(t *testing.T) *Memory {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.Instantiate(ctx, memoryWasm)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	mem, err := FromModule(mod)
	if err != nil {
		t.Fatalf("FromModule: %v", err)
	}
	return mem
}

type header struct {
	Magic   uint32
	Version uint16
	Flags   [2]uint8
	Offset  int64
}

func TestStoreLoad(t *testing.T) {
	mem := newMemory(t)
	if mem.Size() != pageSize {
		t.Fatalf("size = %d, want %d", mem.Size(), pageSize)
	}

	h := header{Magic: 0x6D736100, Version: 3, Flags: [2]uint8{1, 2}, Offset: -7}
	if err := Store(mem, 100, h); err != nil {
		t.Fatalf("Store: %v", err)
	}

	raw, err := mem.Read(100, 4)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if raw[0] != 0x00 || raw[1] != 0x61 || raw[2] != 0x73 || raw[3] != 0x6D {
		t.Errorf("magic bytes = % x", raw)
	}

	got, err := Load[header](mem, 100)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != h {
		t.Errorf("got %+v, want %+v", got, h)
	}
}

func TestBounds(t *testing.T) {
	mem := newMemory(t)

	t.Run("store past end", func(t *testing.T) {
		err := Store(mem, pageSize-4, header{})
		if !errors.Is(err, errors.ErrOverflow) {
			t.Fatalf("expected overflow, got %v", err)
		}
		var e *errors.Error
		if errors.As(err, &e) && e.Phase != errors.PhaseEncode {
			t.Errorf("phase = %s, want encode", e.Phase)
		}
	})

	t.Run("load past end", func(t *testing.T) {
		_, err := Load[header](mem, pageSize-1)
		if !errors.Is(err, errors.ErrOverflow) {
			t.Fatalf("expected overflow, got %v", err)
		}
	})

	t.Run("last fitting slot", func(t *testing.T) {
		if err := Store(mem, pageSize-16, header{Magic: 1}); err != nil {
			t.Fatalf("Store: %v", err)
		}
	})
}

func TestFromModuleWithoutMemory(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, minimalWasm)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	mem, err := FromModule(mod)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if mem != nil {
		t.Fatalf("expected no memory, got %v", mem)
	}
}

func TestIsValidMemory(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	bare, err := rt.Instantiate(ctx, minimalWasm)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if isValidMemory(nil) {
		t.Error("nil interface reported valid")
	}
	if isValidMemory(bare.Memory()) {
		t.Error("typed nil memory reported valid")
	}

	withMem, err := rt.InstantiateWithConfig(ctx, memoryWasm, wazero.NewModuleConfig().WithName("with-memory"))
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if !isValidMemory(withMem.Memory()) {
		t.Error("exported memory reported invalid")
	}
}

func TestSlot(t *testing.T) {
	off, err := Slot[header](1000, 3)
	if err != nil {
		t.Fatalf("Slot: %v", err)
	}
	if off != 1048 {
		t.Errorf("slot 3 = %d, want 1048", off)
	}

	if _, err := Slot[header](0, -1); err == nil {
		t.Error("expected error for negative index")
	}
	if _, err := Slot[header](0xFFFFFFF0, 2); !errors.Is(err, errors.ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}
	if _, err := Slot[int](0, 1); err == nil {
		t.Error("expected error for a type without fixed layout")
	}
}

func TestRegion(t *testing.T) {
	mem := newMemory(t)

	r, err := NewRegion[header](mem, 2048, 8)
	if err != nil {
		t.Fatalf("NewRegion: %v", err)
	}
	for i := 0; i < r.Len; i++ {
		if err := r.Set(i, header{Magic: uint32(i), Offset: int64(-i)}); err != nil {
			t.Fatalf("Set(%d): %v", i, err)
		}
	}
	for i := 0; i < r.Len; i++ {
		got, err := r.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if got.Magic != uint32(i) || got.Offset != int64(-i) {
			t.Errorf("record %d = %+v", i, got)
		}
	}

	if _, err := r.Get(8); !errors.Is(err, errors.ErrOverflow) {
		t.Errorf("expected overflow for index 8, got %v", err)
	}
	if _, err := NewRegion[header](mem, pageSize-32, 4); !errors.Is(err, errors.ErrOverflow) {
		t.Errorf("expected overflow for oversized region, got %v", err)
	}
}
