package alloc

import "github.com/OneLunarSkye/Self-Organized-Criticality/storage"

// Fragmentation returns the current fragmentation percentage in [0, 100].
func (a *Allocator) Fragmentation() float64 {
	return storage.Fragmentation(a.medium, a.gaps)
}

// FragmentCount returns the number of maximal occupied runs.
func (a *Allocator) FragmentCount() int {
	return storage.FragmentCount(a.medium)
}

// SaveTime returns the simulated save latency at the current fragmentation.
func (a *Allocator) SaveTime() float64 {
	return a.model.SaveTime(a.Fragmentation())
}

// LoadTime returns the simulated load latency at the current fragmentation.
func (a *Allocator) LoadTime() float64 {
	return a.model.LoadTime(a.Fragmentation())
}

// AccessTime returns the simulated access latency for the given fragment
// count. The file size is threaded through to the model, which ignores it.
func (a *Allocator) AccessTime(fileSize int, fragments int) float64 {
	return a.model.AccessTime(fileSize, fragments)
}

// Gaps returns a copy of the current gap index.
func (a *Allocator) Gaps() []storage.Gap {
	gaps := make([]storage.Gap, len(a.gaps))
	copy(gaps, a.gaps)
	return gaps
}

// Files returns a copy of the current extent table.
func (a *Allocator) Files() []storage.Extent {
	files := make([]storage.Extent, len(a.files))
	copy(files, a.files)
	return files
}

// Medium exposes the underlying block medium for read-only inspection.
func (a *Allocator) Medium() *storage.Medium {
	return a.medium
}
