package storage

// Gap is one maximal run of free blocks.
type Gap struct {
	Size  int
	Start int
}

// ScanGaps walks the medium once and returns every maximal free run,
// ordered by start offset. Adjacent free blocks always coalesce into a
// single gap, so no two returned gaps touch. The slice is empty when no
// block is free.
//
// The full rescan keeps the gap set trivially consistent with the medium
// after any mutation. An incremental merge/split index keyed by start
// offset would serve much larger media equally well, it just has to
// produce the exact same gap sets.
func ScanGaps(m *Medium) []Gap {
	var gaps []Gap
	runStart := -1
	for block := 0; block < m.capacity; block++ {
		if !m.IsOccupied(block) {
			if runStart < 0 {
				runStart = block
			}
			continue
		}
		if runStart >= 0 {
			gaps = append(gaps, Gap{Size: block - runStart, Start: runStart})
			runStart = -1
		}
	}
	if runStart >= 0 {
		gaps = append(gaps, Gap{Size: m.capacity - runStart, Start: runStart})
	}
	return gaps
}

// FragmentCount returns the number of maximal occupied runs.
func FragmentCount(m *Medium) int {
	count := 0
	inRun := false
	for block := 0; block < m.capacity; block++ {
		if m.IsOccupied(block) {
			if !inRun {
				count++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return count
}

// Fragmentation returns the share of free space sitting outside the
// largest gap, as a percentage in [0, 100]. A medium with no free block,
// or an empty gap set, reads as 0.
func Fragmentation(m *Medium, gaps []Gap) float64 {
	free := m.FreeCount()
	if free == 0 || len(gaps) == 0 {
		return 0
	}
	largest := 0
	for _, gap := range gaps {
		if gap.Size > largest {
			largest = gap.Size
		}
	}
	return float64(free-largest) / float64(free) * 100
}
