// Package rng provides the deterministic random source used by the
// simulation core. It is the only randomness visible to gameplay code:
// a seeded 256-entry shuffle table plus a single index byte of runtime
// state, so the full generator state fits in a snapshot and restores
// byte-exactly across save/load and across machines.
package rng

// tableSize is the length of the shuffle table. The index wraps at 256,
// which keeps the runtime state a single byte.
const tableSize = 256

// Source is a deterministic table-based random generator.
// It is not safe for concurrent use; the simulator owns it exclusively.
type Source struct {
	seed  int64
	table [tableSize]byte
	index uint8
}

// Snapshot captures the complete generator state.
type Snapshot struct {
	Seed  int64 `json:"seed"`
	Index uint8 `json:"index"`
}

// New creates a source whose table is derived from seed.
// The same seed always yields the same draw sequence.
func New(seed int64) *Source {
	s := &Source{seed: seed}
	s.fillTable()
	return s
}

// fillTable builds the shuffle table from the seed using a small
// SplitMix-style mixer, then uses the mixer output again to permute it.
func (s *Source) fillTable() {
	x := uint64(s.seed)
	next := func() uint64 {
		x += 0x9e3779b97f4a7c15
		z := x
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		return z ^ (z >> 31)
	}

	for i := range s.table {
		s.table[i] = byte(i)
	}
	// Fisher-Yates driven by the mixer.
	for i := tableSize - 1; i > 0; i-- {
		j := int(next() % uint64(i+1))
		s.table[i], s.table[j] = s.table[j], s.table[i]
	}
	s.index = 0
}

// Next returns the next table byte (0-255) and advances the index.
func (s *Source) Next() byte {
	s.index++
	return s.table[s.index]
}

// Intn returns a value in [0, n). n must be positive.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn with non-positive n")
	}
	if n == 1 {
		return 0
	}
	// One byte of entropy per draw; larger ranges consume more bytes so
	// that draw counts stay reproducible for a given call sequence.
	v := 0
	for range bytesFor(n) {
		v = v<<8 | int(s.Next())
	}
	return v % n
}

// Chance returns true with probability p/256.
func (s *Source) Chance(p byte) bool {
	return s.Next() < p
}

// Seed returns the seed the table was built from.
func (s *Source) Seed() int64 {
	return s.seed
}

// SaveState captures the generator state for a save game.
func (s *Source) SaveState() Snapshot {
	return Snapshot{Seed: s.seed, Index: s.index}
}

// LoadState restores the generator from a snapshot, rebuilding the
// table if the snapshot was taken with a different seed.
func (s *Source) LoadState(snap Snapshot) {
	if snap.Seed != s.seed {
		s.seed = snap.Seed
		s.fillTable()
	}
	s.index = snap.Index
}

// bytesFor returns how many table bytes a draw in [0, n) consumes.
func bytesFor(n int) int {
	b := 1
	for limit := 256; limit < n; limit *= 256 {
		b++
	}
	return b
}
