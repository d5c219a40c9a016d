package classfile

// KeyMap maps Key content to values.
//
// Go maps cannot use a custom equality, so entries are bucketed by the cached
// Key hash and compared byte-wise within a bucket. Buckets almost always hold
// a single entry.
//
// The zero value is an empty map ready to use; NewKeyMap only adds a
// capacity hint. A KeyMap is not safe for concurrent mutation. Once no goroutine mutates it,
// any number of goroutines may call Get concurrently.
type KeyMap[V any] struct {
	buckets map[uint32][]keyEntry[V]
	n       int
}

type keyEntry[V any] struct {
	key Key
	val V
}

// NewKeyMap creates a KeyMap with a capacity hint.
func NewKeyMap[V any](capacity int) *KeyMap[V] {
	if capacity < 0 {
		capacity = 0
	}
	return &KeyMap[V]{buckets: make(map[uint32][]keyEntry[V], capacity)}
}

// Get returns the value stored for k. A nil KeyMap behaves as empty.
func (m *KeyMap[V]) Get(k Key) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	bucket := m.buckets[k.hash]
	for i := range bucket {
		if bucket[i].key.Equal(k) {
			return bucket[i].val, true
		}
	}
	return zero, false
}

// Put stores v under k, replacing any existing value. The map keeps k, so k
// must own its buffer or outlive the map.
func (m *KeyMap[V]) Put(k Key, v V) {
	if m.buckets == nil {
		m.buckets = make(map[uint32][]keyEntry[V])
	}
	bucket := m.buckets[k.hash]
	for i := range bucket {
		if bucket[i].key.Equal(k) {
			bucket[i].val = v
			return
		}
	}
	m.buckets[k.hash] = append(bucket, keyEntry[V]{key: k, val: v})
	m.n++
}

// GetOrPut returns the value for k, storing mk() first when k is absent.
func (m *KeyMap[V]) GetOrPut(k Key, mk func() V) V {
	if v, ok := m.Get(k); ok {
		return v
	}
	v := mk()
	m.Put(k, v)
	return v
}

// Delete removes k. Safe to call when k is absent.
func (m *KeyMap[V]) Delete(k Key) {
	bucket := m.buckets[k.hash]
	for i := range bucket {
		if bucket[i].key.Equal(k) {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			bucket[last] = keyEntry[V]{}
			if last == 0 {
				delete(m.buckets, k.hash)
			} else {
				m.buckets[k.hash] = bucket[:last]
			}
			m.n--
			return
		}
	}
}

// Len returns the number of entries.
func (m *KeyMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return m.n
}

// Range calls fn for every entry in unspecified order until fn returns false.
func (m *KeyMap[V]) Range(fn func(Key, V) bool) {
	if m == nil {
		return
	}
	for _, bucket := range m.buckets {
		for i := range bucket {
			if !fn(bucket[i].key, bucket[i].val) {
				return
			}
		}
	}
}

// Clear removes all entries but keeps the allocated buckets map.
func (m *KeyMap[V]) Clear() {
	clear(m.buckets)
	m.n = 0
}
