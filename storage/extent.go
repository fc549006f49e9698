package storage

// Extent is one contiguous occupied run placed by a single save. A file
// has no identity beyond the extents it produced: a fragmented save
// leaves one extent per consumed gap and nothing ties them back together
// afterwards.
type Extent struct {
	Start int
	End   int // exclusive
}

func (e Extent) Length() int {
	return e.End - e.Start
}
