package classfile

// Scratch holds the buffers a Scanner fills for one class file. It is owned
// by the caller and reused across Scan calls so that a classpath scan settles
// into a steady state without per-class allocations.
//
// Every Scan invalidates the View and the Keys produced by the previous Scan
// on the same Scratch.
type Scratch struct {
	pool   []byte   // Utf8 entries, each as u16 length + payload
	tags   []byte   // tag per constant-pool slot
	slots  []uint32 // per-slot reference data, see Scanner
	offs   []uint32 // file offset of each entry's tag byte
	keys   []Key    // memoized Keys per slot
	ifaces []uint16 // interface indices
}

// NewScratch creates an empty Scratch. Buffers grow on first use.
func NewScratch() *Scratch {
	return &Scratch{}
}

// reset prepares the per-slot arrays for a constant pool of count slots.
func (s *Scratch) reset(count int) {
	s.pool = s.pool[:0]
	s.tags = resize(s.tags, count)
	s.slots = resize(s.slots, count)
	s.offs = resize(s.offs, count)
	s.keys = resize(s.keys, count)
	s.ifaces = s.ifaces[:0]
}

// PoolCap returns the current capacity of the Utf8 pool. Exposed for metrics
// and tests of buffer reuse.
func (s *Scratch) PoolCap() int { return cap(s.pool) }

func resize[T any](b []T, n int) []T {
	if cap(b) < n {
		return make([]T, n)
	}
	b = b[:n]
	clear(b)
	return b
}
