package storage

import (
	"fmt"
	"math/bits"
)

/*
Medium models a fixed capacity block device as a bitmap,
one bit per block, set bit meaning the block is occupied.

The medium knows nothing about files. Which block belongs to
which allocation is tracked by whoever mutates it, the medium
only answers occupancy questions.
*/
type Medium struct {
	bitmap   []byte
	capacity int
}

// NewMedium returns an all free medium of the given block capacity.
func NewMedium(capacity int) (*Medium, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("medium capacity must be positive, got %d", capacity)
	}
	return &Medium{
		bitmap:   make([]byte, (capacity+7)/8),
		capacity: capacity,
	}, nil
}

func (m *Medium) Capacity() int {
	return m.capacity
}

func (m *Medium) IsOccupied(block int) bool {
	if block < 0 || block >= m.capacity {
		return false
	}
	return m.bitmap[block/8]&(1<<(block%8)) != 0
}

// Occupy marks the half open block range [start, end) occupied.
// The range is clamped to the medium bounds, blocks falling outside
// are silently dropped.
func (m *Medium) Occupy(start, end int) {
	start, end = m.clamp(start, end)
	for block := start; block < end; block++ {
		m.bitmap[block/8] |= 1 << (block % 8)
	}
}

// Release marks the half open block range [start, end) free,
// clamped the same way Occupy is.
func (m *Medium) Release(start, end int) {
	start, end = m.clamp(start, end)
	for block := start; block < end; block++ {
		m.bitmap[block/8] &^= 1 << (block % 8)
	}
}

// Clear frees every block.
func (m *Medium) Clear() {
	for i := range m.bitmap {
		m.bitmap[i] = 0
	}
}

func (m *Medium) OccupiedCount() int {
	count := 0
	for _, b := range m.bitmap {
		count += bits.OnesCount8(b)
	}
	return count
}

func (m *Medium) FreeCount() int {
	return m.capacity - m.OccupiedCount()
}

// OccupiedOffsets returns every occupied block offset in ascending order.
func (m *Medium) OccupiedOffsets() []int {
	offsets := make([]int, 0, m.OccupiedCount())
	for block := 0; block < m.capacity; block++ {
		if m.IsOccupied(block) {
			offsets = append(offsets, block)
		}
	}
	return offsets
}

func (m *Medium) clamp(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > m.capacity {
		end = m.capacity
	}
	if start > end {
		return 0, 0
	}
	return start, end
}
