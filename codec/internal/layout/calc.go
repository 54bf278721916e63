package layout

import (
	"math"
	"sync"

	"github.com/wippyai/fixcodec/schema"
)

// Info is the packed wire layout of a schema type.
type Info struct {
	// Offsets holds the wire offset of each record or tuple field.
	Offsets []int
	Size    int
}

// Calculator computes and caches layouts. Composite schemas are cached by
// pointer identity. Safe for concurrent use.
type Calculator struct {
	cache map[schema.Type]Info
	mu    sync.Mutex
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[schema.Type]Info),
	}
}

// Calculate returns the layout of t. Sizes that overflow int saturate at
// math.MaxInt; unknown shapes have size 0.
func (c *Calculator) Calculate(t schema.Type) Info {
	if p, ok := t.(schema.Primitive); ok {
		return Info{Size: p.Size()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calculate(t)
}

func (c *Calculator) calculate(t schema.Type) Info {
	switch typ := t.(type) {
	case schema.Primitive:
		return Info{Size: typ.Size()}
	case nil:
		return Info{}
	}

	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info
	switch typ := t.(type) {
	case *schema.Record:
		types := make([]schema.Type, len(typ.Fields))
		for i, f := range typ.Fields {
			types[i] = f.Type
		}
		info = c.sequence(types)
	case *schema.Tuple:
		info = c.sequence(typ.Types)
	case *schema.Enum:
		info = Info{Size: typ.Tag.Size()}
	case *schema.Custom:
		info = Info{Size: typ.Size}
	case *schema.Array:
		elem := c.calculate(typ.Elem)
		info = Info{Size: mulSat(elem.Size, typ.Len)}
	}

	c.cache[t] = info
	return info
}

// sequence lays fields out back to back with no padding.
func (c *Calculator) sequence(types []schema.Type) Info {
	offsets := make([]int, len(types))
	offset := 0
	for i, typ := range types {
		offsets[i] = offset
		offset = addSat(offset, c.calculate(typ).Size)
	}
	return Info{Size: offset, Offsets: offsets}
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func mulSat(a, n int) int {
	if n <= 0 || a == 0 {
		return 0
	}
	if a > math.MaxInt/n {
		return math.MaxInt
	}
	return a * n
}
