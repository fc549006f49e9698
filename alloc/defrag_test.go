package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OneLunarSkye/Self-Organized-Criticality/logging"
)

func TestDefrag(t *testing.T) {
	logger := logging.CreateDebugLogger()

	t.Run("Test partial compaction layout", func(t *testing.T) {
		// Intn(11) returning 4 pins the residual gap at 14 blocks
		a, _ := New(*logger, testOptions(100, &scriptedRand{values: []int{4}}))
		for i := 0; i < 5; i++ {
			assert.Nil(t, a.SaveFile(8))
		}
		assert.Equal(t, 40, a.medium.OccupiedCount())

		a.Defrag()

		// 30 compacted up front, 14 wide gap, the 10 leftovers right after
		assert.Equal(t, 40, a.medium.OccupiedCount())
		for block := 0; block < 30; block++ {
			assert.True(t, a.medium.IsOccupied(block))
		}
		for block := 30; block < 44; block++ {
			assert.False(t, a.medium.IsOccupied(block))
		}
		for block := 44; block < 54; block++ {
			assert.True(t, a.medium.IsOccupied(block))
		}
		for block := 54; block < 100; block++ {
			assert.False(t, a.medium.IsOccupied(block))
		}

		// file identity is gone, the table is unit extents now
		assert.Len(t, a.files, 40)
		for _, extent := range a.files {
			assert.Equal(t, 1, extent.Length())
		}
		assert.Equal(t, 2, a.FragmentCount())
		assert.Len(t, a.gaps, 2)
	})

	t.Run("Test residual gap width bounds", func(t *testing.T) {
		for _, scripted := range []struct {
			draw  int
			width int
		}{
			{draw: 0, width: defragGapMin},
			{draw: 10, width: defragGapMax},
		} {
			a, _ := New(*logger, testOptions(100, &scriptedRand{values: []int{scripted.draw}}))
			assert.Nil(t, a.SaveFile(40))

			a.Defrag()

			gaps := a.Gaps()
			assert.Len(t, gaps, 2)
			assert.Equal(t, scripted.width, gaps[0].Size)
			assert.Equal(t, 30, gaps[0].Start)
		}
	})

	t.Run("Test defrag on an empty medium", func(t *testing.T) {
		a, _ := New(*logger, testOptions(100, &scriptedRand{values: []int{0}}))

		a.Defrag()

		assert.Equal(t, 0, a.medium.OccupiedCount())
		assert.Empty(t, a.files)
		assert.Len(t, a.gaps, 1)
		assert.Equal(t, 100, a.gaps[0].Size)
	})

	t.Run("Test relocation clips at capacity", func(t *testing.T) {
		a, _ := New(*logger, testOptions(50, &scriptedRand{values: []int{0}}))
		assert.Nil(t, a.SaveFile(50))
		assert.Equal(t, 50, a.medium.OccupiedCount())

		a.Defrag()

		// 37 compacted, gap of 10, only 3 of the 13 leftovers fit
		assert.Equal(t, 40, a.medium.OccupiedCount())
		assert.Len(t, a.files, 40)
		assert.Equal(t, a.medium.OccupiedCount(), extentTotal(a.files))
	})
}
