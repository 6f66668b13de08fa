package bplus

import (
	"bytes"
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeafDB/storage_engine/bufferpool"
	diskmanager "LeafDB/storage_engine/disk_manager"
)

func newTestTree(t *testing.T, capacity int) (*BPlusTree, *bufferpool.BufferPool) {
	t.Helper()
	pool, err := bufferpool.NewBufferPool(capacity, diskmanager.NewMemoryDiskManager())
	require.NoError(t, err)
	tree, err := Create(pool, []byte("payload"))
	require.NoError(t, err)
	return tree, pool
}

func collect(t *testing.T, it *Iterator) (keys, values []string) {
	t.Helper()
	for {
		k, v, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			return keys, values
		}
		keys = append(keys, string(k))
		values = append(values, string(v))
	}
}

func TestEmptyTree(t *testing.T) {
	tree, pool := newTestTree(t, 4)

	_, found, err := tree.Search([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, found)

	it, err := tree.Scan()
	require.NoError(t, err)
	keys, _ := collect(t, it)
	assert.Empty(t, keys)

	stats, err := tree.Stats()
	require.NoError(t, err)
	assert.Equal(t, TreeStats{Height: 1, Leaves: 1}, stats)

	payload, err := tree.MetaPayload()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(payload))
	assert.Equal(t, 0, pool.GetStats().PinnedPages)
}

func TestInsertSearchScan(t *testing.T) {
	tree, _ := newTestTree(t, 4)

	for _, k := range []string{"delta", "alpha", "echo", "charlie", "bravo"} {
		require.NoError(t, tree.Insert([]byte(k), []byte(strings.ToUpper(k))))
	}

	v, found, err := tree.Search([]byte("charlie"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "CHARLIE", string(v))

	_, found, err = tree.Search([]byte("foxtrot"))
	require.NoError(t, err)
	assert.False(t, found)

	it, err := tree.Scan()
	require.NoError(t, err)
	keys, values := collect(t, it)
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, keys)
	assert.Equal(t, "ALPHA", values[0])
}

func TestDuplicateKeyLeavesTreeUnchanged(t *testing.T) {
	tree, pool := newTestTree(t, 4)
	require.NoError(t, tree.Insert([]byte("k"), []byte("first")))
	before, err := tree.Stats()
	require.NoError(t, err)

	err = tree.Insert([]byte("k"), []byte("second"))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	v, found, err := tree.Search([]byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "first", string(v))

	after, err := tree.Stats()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 0, pool.GetStats().PinnedPages)
}

func TestOversizedPairs(t *testing.T) {
	tree, _ := newTestTree(t, 4)

	err := tree.Insert(bytes.Repeat([]byte{'k'}, MaxKeySize+1), nil)
	assert.ErrorIs(t, err, ErrKeyTooLarge)

	err = tree.Insert([]byte("k"), bytes.Repeat([]byte{'v'}, MaxEntrySize))
	assert.ErrorIs(t, err, ErrPairTooLarge)

	// the largest legal key still goes in
	require.NoError(t, tree.Insert(bytes.Repeat([]byte{'k'}, MaxKeySize), nil))
}

// TestRandomInsertsForceSplits inserts keys in random order with sizes that
// force leaf and branch splits, then checks order, lookups and pin hygiene.
func TestRandomInsertsForceSplits(t *testing.T) {
	for _, capacity := range []int{2, 3, 16} {
		t.Run(fmt.Sprintf("pool=%d", capacity), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(42 + capacity)))
			tree, pool := newTestTree(t, capacity)

			const n = 600
			want := make(map[string]string, n)
			for _, i := range rng.Perm(n) {
				// long keys keep branch fan-out low so the root splits too
				key := fmt.Sprintf("%06d", i) + strings.Repeat("k", rng.Intn(400))
				value := strings.Repeat("v", rng.Intn(200))
				require.NoError(t, tree.Insert([]byte(key), []byte(value)))
				want[key] = value
				require.LessOrEqual(t, pool.Size(), capacity)
			}

			sorted := make([]string, 0, n)
			for k := range want {
				sorted = append(sorted, k)
			}
			sort.Strings(sorted)

			it, err := tree.Scan()
			require.NoError(t, err)
			keys, values := collect(t, it)
			require.Equal(t, sorted, keys)
			for i, k := range keys {
				assert.Equal(t, want[k], values[i])
			}

			for _, k := range sorted[:50] {
				v, found, err := tree.Search([]byte(k))
				require.NoError(t, err)
				require.True(t, found, "key %q", k[:6])
				assert.Equal(t, want[k], string(v))
			}
			_, found, err := tree.Search([]byte("999999"))
			require.NoError(t, err)
			assert.False(t, found)

			stats, err := tree.Stats()
			require.NoError(t, err)
			assert.Equal(t, n, stats.Pairs)
			assert.GreaterOrEqual(t, stats.Height, 3, "branch splits expected")
			assert.Greater(t, stats.Branches, 1)

			assert.Equal(t, 0, pool.GetStats().PinnedPages)
		})
	}
}

func TestSeekGE(t *testing.T) {
	tree, _ := newTestTree(t, 4)
	for i := 0; i < 200; i += 2 {
		require.NoError(t, tree.Insert([]byte(fmt.Sprintf("%04d", i)), bytes.Repeat([]byte{'x'}, 100)))
	}

	it, err := tree.SeekGE([]byte("0051"))
	require.NoError(t, err)
	keys, _ := collect(t, it)
	require.NotEmpty(t, keys)
	assert.Equal(t, "0052", keys[0])
	assert.Equal(t, "0198", keys[len(keys)-1])
	assert.Len(t, keys, 74)

	it, err = tree.SeekGE([]byte("9999"))
	require.NoError(t, err)
	keys, _ = collect(t, it)
	assert.Empty(t, keys)
}

func TestIteratorSeesInsertsAhead(t *testing.T) {
	tree, pool := newTestTree(t, 3)
	for i := 0; i < 100; i += 2 {
		require.NoError(t, tree.Insert([]byte(fmt.Sprintf("%04d", i)), bytes.Repeat([]byte{'x'}, 150)))
	}

	it, err := tree.Scan()
	require.NoError(t, err)

	var keys []string
	for {
		k, _, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		keys = append(keys, string(k))
		assert.Equal(t, 0, pool.GetStats().PinnedPages, "no pin held between pulls")

		// insert the odd neighbour ahead of the cursor, splitting leaves as we go
		var i int
		_, err = fmt.Sscanf(string(k), "%d", &i)
		require.NoError(t, err)
		if i%2 == 0 {
			require.NoError(t, tree.Insert([]byte(fmt.Sprintf("%04d", i+1)), bytes.Repeat([]byte{'y'}, 150)))
		}
	}

	assert.True(t, sort.StringsAreSorted(keys))
	assert.Len(t, keys, 100)

	it.Close()
	_, _, ok, err := it.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptMetaIsDetected(t *testing.T) {
	tree, pool := newTestTree(t, 4)

	g, err := pool.Fetch(tree.MetaPageID())
	require.NoError(t, err)
	g.Data()[metaHeaderSize] ^= 0xFF
	g.MarkDirty()
	g.Release()

	_, err = Open(pool, tree.MetaPageID())
	assert.ErrorIs(t, err, ErrCorruptMeta)

	_, _, err = tree.Search([]byte("a"))
	assert.ErrorIs(t, err, ErrCorruptMeta)
	assert.Equal(t, 0, pool.GetStats().PinnedPages)
}

func TestOpenNonMetaPage(t *testing.T) {
	tree, pool := newTestTree(t, 4)
	rootID, err := tree.rootID()
	require.NoError(t, err)

	_, err = Open(pool, rootID)
	assert.ErrorIs(t, err, ErrCorruptMeta)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.db")

	dm, err := diskmanager.Open(path)
	require.NoError(t, err)
	pool, err := bufferpool.NewBufferPool(4, dm)
	require.NoError(t, err)

	tree, err := Create(pool, []byte{1, 0, 0, 0})
	require.NoError(t, err)
	for i := 0; i < 300; i++ {
		require.NoError(t, tree.Insert([]byte(fmt.Sprintf("key-%05d", i)), bytes.Repeat([]byte{byte(i)}, 64)))
	}
	metaID := tree.MetaPageID()
	require.NoError(t, pool.Close())

	dm2, err := diskmanager.Open(path)
	require.NoError(t, err)
	pool2, err := bufferpool.NewBufferPool(4, dm2)
	require.NoError(t, err)
	defer pool2.Close()

	reopened, err := Open(pool2, metaID)
	require.NoError(t, err)

	payload, err := reopened.MetaPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0}, payload)

	v, found, err := reopened.Search([]byte("key-00123"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, bytes.Repeat([]byte{123}, 64), v)

	stats, err := reopened.Stats()
	require.NoError(t, err)
	assert.Equal(t, 300, stats.Pairs)
}

func TestDump(t *testing.T) {
	tree, _ := newTestTree(t, 4)
	for i := 0; i < 40; i++ {
		require.NoError(t, tree.Insert([]byte(fmt.Sprintf("k%03d", i)), bytes.Repeat([]byte{'v'}, 200)))
	}

	var buf bytes.Buffer
	require.NoError(t, tree.Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "(meta): root page id")
	assert.Contains(t, out, "BRANCH")
	assert.Contains(t, out, `"k000"`)
}
