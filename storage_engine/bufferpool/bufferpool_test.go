package bufferpool

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diskmanager "LeafDB/storage_engine/disk_manager"
	"LeafDB/types"
)

func newMemoryPool(t *testing.T, capacity int) (*BufferPool, *diskmanager.MemoryDiskManager) {
	t.Helper()
	dm := diskmanager.NewMemoryDiskManager()
	bp, err := NewBufferPool(capacity, dm)
	require.NoError(t, err)
	return bp, dm
}

// allocate creates n pages, stamps the first byte with the page id and unpins them.
func allocate(t *testing.T, bp *BufferPool, n int) []types.PageID {
	t.Helper()
	ids := make([]types.PageID, 0, n)
	for i := 0; i < n; i++ {
		pg, err := bp.NewPage()
		require.NoError(t, err)
		pg.Data[0] = byte(pg.ID)
		ids = append(ids, pg.ID)
		require.NoError(t, bp.UnpinPage(pg.ID, true))
	}
	return ids
}

func TestNewBufferPoolRejectsZeroCapacity(t *testing.T) {
	_, err := NewBufferPool(0, diskmanager.NewMemoryDiskManager())
	assert.True(t, errors.Is(err, ErrInvalidCapacity))
}

func TestFetchHitAndMiss(t *testing.T) {
	bp, _ := newMemoryPool(t, 4)
	ids := allocate(t, bp, 2)

	pg, err := bp.FetchPage(ids[0])
	require.NoError(t, err)
	assert.Equal(t, int32(1), pg.PinCount)
	require.NoError(t, bp.UnpinPage(ids[0], false))

	stats := bp.GetStats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, 2, stats.TotalPages)
	assert.Equal(t, 2, stats.DirtyPages)
	assert.Equal(t, 0, stats.PinnedPages)
}

func TestResidentFramesNeverExceedCapacity(t *testing.T) {
	bp, _ := newMemoryPool(t, 3)
	ids := allocate(t, bp, 10)

	assert.LessOrEqual(t, bp.Size(), 3)
	for _, id := range ids {
		pg, err := bp.FetchPage(id)
		require.NoError(t, err)
		assert.Equal(t, byte(id), pg.Data[0], "evicted dirty page must come back intact")
		require.NoError(t, bp.UnpinPage(id, false))
		assert.LessOrEqual(t, bp.Size(), bp.Capacity())
	}

	stats := bp.GetStats()
	assert.Greater(t, stats.Evictions, uint64(0))
	assert.Greater(t, stats.Flushes, uint64(0))
}

func TestPinnedPageIsNeverEvicted(t *testing.T) {
	bp, _ := newMemoryPool(t, 2)
	ids := allocate(t, bp, 3)

	pinned, err := bp.FetchPage(ids[0])
	require.NoError(t, err)

	// cycle the other pages through the single free frame
	for i := 0; i < 5; i++ {
		id := ids[1+i%2]
		_, err := bp.FetchPage(id)
		require.NoError(t, err)
		require.NoError(t, bp.UnpinPage(id, false))
		assert.True(t, bp.IsResident(ids[0]))
	}

	assert.Equal(t, int32(1), bp.PinCount(pinned.ID))
	require.NoError(t, bp.UnpinPage(pinned.ID, false))
	assert.Equal(t, int32(0), bp.PinCount(pinned.ID))
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	bp, _ := newMemoryPool(t, 3)
	ids := allocate(t, bp, 3)

	// touch 0 so that 1 becomes the oldest
	_, err := bp.FetchPage(ids[0])
	require.NoError(t, err)
	require.NoError(t, bp.UnpinPage(ids[0], false))

	_, err = bp.NewPage()
	require.NoError(t, err)

	assert.True(t, bp.IsResident(ids[0]))
	assert.False(t, bp.IsResident(ids[1]))
	assert.True(t, bp.IsResident(ids[2]))
}

func TestExhaustedWhenAllPinned(t *testing.T) {
	bp, dm := newMemoryPool(t, 2)

	a, err := bp.NewPage()
	require.NoError(t, err)
	b, err := bp.NewPage()
	require.NoError(t, err)

	_, err = bp.NewPage()
	require.Error(t, err)
	assert.True(t, IsExhausted(err))
	assert.Equal(t, uint64(2), dm.NumPages(), "failed NewPage must not allocate on disk")

	require.NoError(t, bp.UnpinPage(a.ID, false))
	c, err := bp.NewPage()
	require.NoError(t, err)
	assert.Equal(t, types.PageID(2), c.ID)

	require.NoError(t, bp.UnpinPage(b.ID, false))
	require.NoError(t, bp.UnpinPage(c.ID, false))
}

func TestUnpinErrors(t *testing.T) {
	bp, _ := newMemoryPool(t, 2)
	ids := allocate(t, bp, 1)

	err := bp.UnpinPage(ids[0], false)
	assert.True(t, IsNotPinned(err), "page already unpinned")

	err = bp.UnpinPage(42, false)
	assert.True(t, IsNotPinned(err), "page not resident")
}

func TestFetchMissingPageReleasesNothing(t *testing.T) {
	bp, _ := newMemoryPool(t, 2)
	_, err := bp.FetchPage(99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskmanager.ErrPageOutOfRange))
	assert.Equal(t, 0, bp.Size())
}

func TestPageGuardReleaseIsIdempotent(t *testing.T) {
	bp, _ := newMemoryPool(t, 2)
	ids := allocate(t, bp, 1)
	require.NoError(t, bp.FlushAllPages())

	g, err := bp.Fetch(ids[0])
	require.NoError(t, err)
	g.Data()[1] = 0xAB
	g.MarkDirty()
	g.Release()
	g.Release()

	assert.Equal(t, int32(0), bp.PinCount(ids[0]))
	assert.Equal(t, 1, bp.GetStats().DirtyPages)
}

func TestFlushAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.db")

	dm, err := diskmanager.Open(path)
	require.NoError(t, err)
	bp, err := NewBufferPool(2, dm)
	require.NoError(t, err)

	g, err := bp.New()
	require.NoError(t, err)
	copy(g.Data(), "persisted")
	id := g.ID()
	g.Release()
	require.NoError(t, bp.Close())

	dm2, err := diskmanager.Open(path)
	require.NoError(t, err)
	bp2, err := NewBufferPool(2, dm2)
	require.NoError(t, err)
	defer bp2.Close()

	g2, err := bp2.Fetch(id)
	require.NoError(t, err)
	defer g2.Release()
	assert.Equal(t, "persisted", string(g2.Data()[:9]))
}
