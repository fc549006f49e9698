package alloc

import "github.com/OneLunarSkye/Self-Organized-Criticality/storage"

// Defrag partially compacts the medium: a DefragPercent share of the
// occupied blocks moves to the front, then a random 10 to 20 block gap
// is left open, then the remainder is packed contiguously after it. The
// residual gap is the point of the exercise, full compaction would reset
// the fragmentation dynamics the simulation studies.
//
// The extent table is rebuilt as unit extents, one per occupied block.
// Whatever file structure existed before the defrag is gone, deliberately:
// files have no identity beyond their extents.
func (a *Allocator) Defrag() {
	occupied := a.medium.OccupiedCount()
	a.medium.Clear()

	compacted := int(float64(occupied) * a.options.DefragPercent)
	a.medium.Occupy(0, compacted)

	gapWidth := defragGapMin + a.rng.Intn(defragGapMax-defragGapMin+1)
	remainder := occupied - compacted
	relocated := compacted + gapWidth
	// Occupy clamps at capacity, a relocation running past the end of the
	// medium drops the tail just like the slice write it models.
	a.medium.Occupy(relocated, relocated+remainder)

	a.refreshGaps()

	a.files = a.files[:0]
	for _, offset := range a.medium.OccupiedOffsets() {
		a.files = append(a.files, storage.Extent{Start: offset, End: offset + 1})
	}

	a.logger.Debug().Msgf("defragmented %d of %d occupied blocks, residual gap %d wide", compacted, occupied, gapWidth)
}
