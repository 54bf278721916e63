// Package inspect renders fixed-layout data without a Go type, driven by
// the schema alone.
//
// Layout reports where each leaf of a schema lives on the wire:
//
//	entries, _ := inspect.Layout(headerSchema)
//	for _, e := range entries {
//	    fmt.Printf("%4d %-3d %-16s %s\n", e.Offset, e.Size, e.Path, e.Type)
//	}
//
// Dump does the same for an encoded value and fills Value with the
// decoded text. Enum leaves render as "Name (discriminant)", custom leaves
// as hex.
package inspect
