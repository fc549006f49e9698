package alloc

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/phuslu/log"

	"github.com/OneLunarSkye/Self-Organized-Criticality/latency"
	"github.com/OneLunarSkye/Self-Organized-Criticality/storage"
)

// Rand is the randomness the allocator consumes: the delete pick and the
// defrag gap width. *math/rand.Rand satisfies it, tests substitute
// scripted sequences to pin exact outcomes.
type Rand interface {
	Intn(n int) int
}

const (
	// Deletion below this many resident extents is a no-op, keeping the
	// medium populated enough for fragmentation to stay meaningful.
	minResidentFiles = 3

	// Width range of the gap Defrag deliberately leaves behind the
	// compacted region.
	defragGapMin = 10
	defragGapMax = 20
)

type Options struct {
	// Capacity is the medium size in blocks.
	Capacity int
	// DefragPercent is the fraction of occupied blocks compacted to the
	// front of the medium on Defrag, in [0, 1].
	DefragPercent float64
	// BaseTime and FragmentPenalty feed the latency model.
	BaseTime        float64
	FragmentPenalty float64
	// Rand defaults to a time seeded math/rand source when nil.
	Rand Rand
}

func (o *Options) validate() error {
	if o.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", o.Capacity)
	}
	if o.DefragPercent < 0 || o.DefragPercent > 1 {
		return fmt.Errorf("defrag percent must be in [0, 1], got %v", o.DefragPercent)
	}
	if o.BaseTime < 0 {
		return fmt.Errorf("base time must not be negative, got %v", o.BaseTime)
	}
	if o.FragmentPenalty < 0 {
		return fmt.Errorf("fragment penalty must not be negative, got %v", o.FragmentPenalty)
	}
	return nil
}

/*
Allocator owns one storage medium, the gap index derived from it and the
extent table of every resident file.

The placement contract is deliberately forgiving: a save that no single
gap can hold is split across gaps, a save larger than all remaining free
space is truncated to what fits, a delete on a nearly empty table does
nothing. The only errors it ever reports are invalid parameters.
*/
type Allocator struct {
	logger  log.Logger
	options Options
	medium  *storage.Medium
	gaps    []storage.Gap
	files   []storage.Extent
	model   latency.Model
	rng     Rand
}

func New(logger log.Logger, options Options) (*Allocator, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}
	medium, err := storage.NewMedium(options.Capacity)
	if err != nil {
		return nil, err
	}
	rng := options.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	a := &Allocator{
		logger:  logger,
		options: options,
		medium:  medium,
		model: latency.Model{
			BaseTime:        options.BaseTime,
			FragmentPenalty: options.FragmentPenalty,
		},
		rng: rng,
	}
	a.refreshGaps()
	return a, nil
}

func (a *Allocator) refreshGaps() {
	a.gaps = storage.ScanGaps(a.medium)
}

// CanFit reports whether some single gap can hold size blocks whole.
func (a *Allocator) CanFit(size int) bool {
	for _, gap := range a.gaps {
		if gap.Size >= size {
			return true
		}
	}
	return false
}

// SaveFile places size blocks into the smallest gap that holds them
// whole. When no single gap qualifies the file is fragmented across gaps
// instead, and when total free space runs out the excess is silently
// dropped: a save never fails, it allocates what fits.
func (a *Allocator) SaveFile(size int) error {
	if size <= 0 {
		return fmt.Errorf("file size must be positive, got %d", size)
	}
	best := -1
	for i, gap := range a.gaps {
		if gap.Size < size {
			continue
		}
		if best < 0 || gap.Size < a.gaps[best].Size {
			best = i
		}
	}
	if best >= 0 {
		start := a.gaps[best].Start
		a.medium.Occupy(start, start+size)
		a.files = append(a.files, storage.Extent{Start: start, End: start + size})
	} else {
		a.fragmentFile(size)
	}
	a.refreshGaps()
	return nil
}

// fragmentFile consumes gaps in index order, one extent per gap, until
// the request is satisfied or free space is exhausted.
func (a *Allocator) fragmentFile(size int) {
	remaining := size
	for _, gap := range a.gaps {
		if remaining <= 0 {
			break
		}
		chunk := gap.Size
		if remaining < chunk {
			chunk = remaining
		}
		a.medium.Occupy(gap.Start, gap.Start+chunk)
		a.files = append(a.files, storage.Extent{Start: gap.Start, End: gap.Start + chunk})
		remaining -= chunk
	}
	if remaining > 0 {
		a.logger.Debug().Msgf("storage exhausted, dropped %d of %d requested blocks", remaining, size)
	}
}

// DeleteRandomFile releases one uniformly chosen extent and removes it
// from the table. With fewer than three resident extents it does nothing.
func (a *Allocator) DeleteRandomFile() {
	if len(a.files) < minResidentFiles {
		return
	}
	idx := a.rng.Intn(len(a.files))
	extent := a.files[idx]
	a.medium.Release(extent.Start, extent.End)
	a.files = append(a.files[:idx], a.files[idx+1:]...)
	a.refreshGaps()
}
