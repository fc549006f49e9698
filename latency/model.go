package latency

// Model derives simulated operation latencies from the fragmentation
// state of the medium. It holds no state of its own, every call is a
// pure function of its inputs and the two constants.
type Model struct {
	BaseTime        float64
	FragmentPenalty float64
}

// SaveTime grows linearly with fragmentation, doubling the base time at
// 100 percent.
func (m Model) SaveTime(frag float64) float64 {
	return m.BaseTime * (1 + frag/100)
}

// LoadTime grows twice as fast as SaveTime.
func (m Model) LoadTime(frag float64) float64 {
	return m.BaseTime * (1 + frag/50)
}

// AccessTime charges a fixed penalty per resident fragment. Callers
// thread the size of the file they just touched through, but the formula
// does not use it. That is the established contract of this model, kept
// as is rather than silently changed.
func (m Model) AccessTime(fileSize int, fragments int) float64 {
	return m.BaseTime + m.FragmentPenalty*float64(fragments)
}
