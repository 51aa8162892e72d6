package chunk

import (
	"github.com/dolthub/maphash"
)

// table is an open-addressing hash table based on Abseil's flat_hash_map,
// pared down for the chunk caches: no deletion, since a cache entry lives for
// the whole transaction once decoded.
//
// find operations first probe the h2 control bytes to filter candidates
// before matching keys.
type table[K comparable, V any] struct {
	ctrl     []metadata
	groups   []group[K, V]
	hash     maphash.Hasher[K]
	resident uint32
	limit    uint32
}

// metadata is the h2 metadata array for a group.
type metadata [groupSize]int8

// group is a group of 16 key-value pairs.
type group[K comparable, V any] struct {
	keys   [groupSize]K
	values [groupSize]V
}

const (
	groupSize       = 16
	maxAvgGroupLoad = 14

	h1Mask uint64 = 0xffff_ffff_ffff_ff80
	h2Mask uint64 = 0x0000_0000_0000_007f
	empty  int8   = -128 // 0b1000_0000
)

// h1 is a 57 bit hash prefix.
type h1 uint64

// h2 is a 7 bit hash suffix.
type h2 int8

// newTable constructs a table sized for sz entries.
func newTable[K comparable, V any](sz uint32) *table[K, V] {
	groups := numGroups(sz)

	m := &table[K, V]{
		ctrl:   make([]metadata, groups),
		groups: make([]group[K, V], groups),
		hash:   maphash.NewHasher[K](),
		limit:  groups * maxAvgGroupLoad,
	}

	for i := range m.ctrl {
		m.ctrl[i] = newEmptyMetadata()
	}

	return m
}

// get returns the value stored for key, if present.
func (m *table[K, V]) get(key K) (value V, ok bool) {
	hi, lo := splitHash(m.hash.Hash(key))
	g := probeStart(hi, len(m.groups))

	for {
		ctrl := &m.ctrl[g]
		grp := &m.groups[g]

		for s := 0; s < groupSize; s++ {
			if ctrl[s] == int8(lo) && grp.keys[s] == key {
				return grp.values[s], true
			}
		}

		// An empty control byte ends the probe chain.
		for s := 0; s < groupSize; s++ {
			if ctrl[s] == empty {
				return
			}
		}

		g++
		if g >= uint32(len(m.groups)) {
			g = 0
		}
	}
}

// put inserts or replaces the value stored for key.
func (m *table[K, V]) put(key K, value V) {
	if m.resident >= m.limit {
		m.rehash(uint32(len(m.groups)) * 2 * maxAvgGroupLoad)
	}

	hi, lo := splitHash(m.hash.Hash(key))
	g := probeStart(hi, len(m.groups))

	for {
		ctrl := &m.ctrl[g]
		grp := &m.groups[g]

		for s := 0; s < groupSize; s++ {
			if ctrl[s] == int8(lo) && grp.keys[s] == key {
				grp.values[s] = value
				return
			}
		}

		for s := 0; s < groupSize; s++ {
			if ctrl[s] == empty {
				ctrl[s] = int8(lo)
				grp.keys[s] = key
				grp.values[s] = value
				m.resident++
				return
			}
		}

		g++
		if g >= uint32(len(m.groups)) {
			g = 0
		}
	}
}

// each visits every entry until f returns false.
func (m *table[K, V]) each(f func(key K, value V) bool) {
	for g := range m.groups {
		ctrl := &m.ctrl[g]
		grp := &m.groups[g]

		for s := 0; s < groupSize; s++ {
			if ctrl[s] != empty && !f(grp.keys[s], grp.values[s]) {
				return
			}
		}
	}
}

// len returns the number of resident entries.
func (m *table[K, V]) len() int { return int(m.resident) }

// rehash grows the table to hold sz entries, reinserting every resident
// entry with the same hasher.
func (m *table[K, V]) rehash(sz uint32) {
	ctrl, groups := m.ctrl, m.groups

	n := numGroups(sz)
	m.ctrl = make([]metadata, n)
	m.groups = make([]group[K, V], n)
	for i := range m.ctrl {
		m.ctrl[i] = newEmptyMetadata()
	}

	m.limit = n * maxAvgGroupLoad
	m.resident = 0

	for g := range groups {
		for s := 0; s < groupSize; s++ {
			if ctrl[g][s] != empty {
				m.put(groups[g].keys[s], groups[g].values[s])
			}
		}
	}
}

func numGroups(n uint32) (groups uint32) {
	groups = (n + maxAvgGroupLoad - 1) / maxAvgGroupLoad
	if groups == 0 {
		groups = 1
	}

	return
}

func newEmptyMetadata() (meta metadata) {
	for i := range meta {
		meta[i] = empty
	}

	return
}

func splitHash(h uint64) (h1, h2) {
	return h1((h & h1Mask) >> 7), h2(h & h2Mask)
}

func probeStart(hi h1, groups int) uint32 {
	return fastModN(uint32(hi), uint32(groups))
}

// fastModN is the lemire trick for mapping a hash onto [0, n).
func fastModN(x, n uint32) uint32 {
	return uint32((uint64(x) * uint64(n)) >> 32)
}
