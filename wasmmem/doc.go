// Package wasmmem reads and writes fixed-layout records in WebAssembly
// linear memory through wazero.
//
// Records are stored with the same byte layout codec produces, so a guest
// compiled against the same struct definition can share them without a
// serialization step:
//
//	mem, _ := wasmmem.FromModule(mod)
//	_ = wasmmem.Store(mem, 1024, header)
//	h, _ := wasmmem.Load[Header](mem, 1024)
//
// Region addresses a dense array of records:
//
//	r, _ := wasmmem.NewRegion[Sample](mem, 4096, 64)
//	_ = r.Set(3, s)
package wasmmem
