package diskmanager

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeafDB/types"
)

func pageOf(fill string) []byte {
	buf := make([]byte, types.PageSize)
	copy(buf, fill)
	return buf
}

func TestDiskManagerBasicOperations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.db")

	dm, err := Open(path)
	require.NoError(t, err)
	defer dm.Close()

	first, err := dm.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, types.PageID(0), first, "first page of a new file is 0")

	second, err := dm.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, types.PageID(1), second)
	assert.Equal(t, uint64(2), dm.NumPages())

	// never written pages read back as zeros
	buf := make([]byte, types.PageSize)
	require.NoError(t, dm.ReadPage(second, buf))
	assert.True(t, bytes.Equal(buf, make([]byte, types.PageSize)))

	data := pageOf("Hello, Disk Manager!")
	require.NoError(t, dm.WritePage(first, data))
	require.NoError(t, dm.ReadPage(first, buf))
	assert.Equal(t, data, buf)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2*types.PageSize), info.Size())
}

func TestDiskManagerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.db")

	dm, err := Open(path)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		id, err := dm.AllocatePage()
		require.NoError(t, err)
		require.NoError(t, dm.WritePage(id, pageOf(string(rune('a'+i)))))
	}
	require.NoError(t, dm.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, uint64(3), reopened.NumPages(), "next page id is derived from file size")

	buf := make([]byte, types.PageSize)
	require.NoError(t, reopened.ReadPage(2, buf))
	assert.Equal(t, byte('c'), buf[0])

	id, err := reopened.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, types.PageID(3), id)
}

func TestDiskManagerOutOfRange(t *testing.T) {
	dm, err := Open(filepath.Join(t.TempDir(), "leaf.db"))
	require.NoError(t, err)
	defer dm.Close()

	buf := make([]byte, types.PageSize)
	err = dm.ReadPage(5, buf)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))

	err = dm.WritePage(0, buf)
	assert.True(t, errors.Is(err, ErrPageOutOfRange))

	_, err = dm.AllocatePage()
	require.NoError(t, err)
	err = dm.ReadPage(0, make([]byte, 10))
	assert.True(t, errors.Is(err, ErrBadPageSize))
}

func TestDiskManagerExclusiveLock(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("advisory locking is unix only")
	}
	path := filepath.Join(t.TempDir(), "leaf.db")

	dm, err := Open(path)
	require.NoError(t, err)

	_, err = Open(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))

	require.NoError(t, dm.Close())

	again, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestDiskManagerClosed(t *testing.T) {
	dm, err := Open(filepath.Join(t.TempDir(), "leaf.db"))
	require.NoError(t, err)
	require.NoError(t, dm.Close())
	require.NoError(t, dm.Close(), "second close is a no-op")

	_, err = dm.AllocatePage()
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestIOErrorMatchesErrIO(t *testing.T) {
	err := newIOError("write", 7, os.ErrPermission)
	assert.True(t, IsIOError(err))
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Contains(t, err.Error(), "write page 7")

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, types.PageID(7), ioErr.PageID)
}

func TestMemoryDiskManager(t *testing.T) {
	m := NewMemoryDiskManager()

	id, err := m.AllocatePage()
	require.NoError(t, err)
	assert.Equal(t, types.PageID(0), id)

	data := pageOf("memory")
	require.NoError(t, m.WritePage(id, data))

	// mutating the caller's slice must not reach the store
	data[0] = 'X'
	buf := make([]byte, types.PageSize)
	require.NoError(t, m.ReadPage(id, buf))
	assert.Equal(t, byte('m'), buf[0])

	assert.True(t, errors.Is(m.ReadPage(9, buf), ErrPageOutOfRange))

	require.NoError(t, m.Close())
	assert.True(t, errors.Is(m.Sync(), ErrClosed))
}
