package storageengine

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeafDB/config"
	executor "LeafDB/query_executor"
	bplus "LeafDB/storage_engine/bplustree"
	"LeafDB/storage_engine/table"
	"LeafDB/storage_engine/tuple"
	"LeafDB/types"
)

func memoryEngine(t *testing.T, poolSize int) *StorageEngine {
	t.Helper()
	cfg := config.NewCfg()
	cfg.InMemory = true
	cfg.BufferPoolSize = poolSize
	se, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { se.Close() })
	return se
}

func fileEngine(t *testing.T, path string, poolSize int) *StorageEngine {
	t.Helper()
	cfg := config.NewCfg()
	cfg.DataFile = path
	cfg.BufferPoolSize = poolSize
	se, err := New(cfg)
	require.NoError(t, err)
	return se
}

var people = []tuple.Tuple{
	tuple.FromStrings("z", "Alice", "Smith"),
	tuple.FromStrings("x", "Bob", "Johnson"),
	tuple.FromStrings("y", "Charlie", "Williams"),
	tuple.FromStrings("w", "Dave", "Miller"),
	tuple.FromStrings("v", "Eve", "Brown"),
}

func nameIs(name string) executor.Expr {
	return executor.Eq{Left: executor.Column{Index: 1}, Right: executor.Literal{Value: []byte(name)}}
}

func TestEndToEndScenario(t *testing.T) {
	se := memoryEngine(t, 10)

	res, err := se.Execute(CreateTable{NumKeyElems: 1})
	require.NoError(t, err)
	assert.Equal(t, "table_page_id = 0\n", res.String())

	for _, row := range people {
		res, err := se.Execute(Insert{Table: 0, NumKeyElems: 1, Record: row})
		require.NoError(t, err)
		assert.Empty(t, res.String())
	}

	res, err = se.Execute(Query{Plan: executor.Filter{
		From:  executor.SeqScan{Table: 0},
		Where: executor.Or{Left: nameIs("Charlie"), Right: nameIs("Alice")},
	}})
	require.NoError(t, err)

	rows := res.(QueryResult).Rows
	require.Len(t, rows, 2)
	assert.Equal(t, people[2], rows[0])
	assert.Equal(t, people[0], rows[1])

	lines := strings.Split(strings.TrimSuffix(res.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `Tuple("y" [79], "Charlie" [43 68 61 72 6c 69 65]`), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `Tuple("z" [7a], "Alice"`), lines[1])

	assert.Equal(t, 0, se.Stats().PinnedPages)
}

func TestSecondTableGetsFreshPages(t *testing.T) {
	se := memoryEngine(t, 4)

	first, err := se.CreateTable(CreateTable{NumKeyElems: 1})
	require.NoError(t, err)
	second, err := se.CreateTable(CreateTable{NumKeyElems: 2})
	require.NoError(t, err)
	assert.Equal(t, types.PageID(0), first)
	assert.Greater(t, uint64(second), uint64(first))

	require.NoError(t, se.Insert(Insert{Table: second, NumKeyElems: 2, Record: tuple.FromStrings("a", "b", "c")}))
	rows, err := se.QueryAll(Query{Plan: executor.SeqScan{Table: first}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInsertErrors(t *testing.T) {
	se := memoryEngine(t, 4)
	id, err := se.CreateTable(CreateTable{NumKeyElems: 1})
	require.NoError(t, err)

	err = se.Insert(Insert{Table: id, NumKeyElems: 2, Record: tuple.FromStrings("a", "b")})
	assert.ErrorIs(t, err, table.ErrSchemaMismatch)

	require.NoError(t, se.Insert(Insert{Table: id, NumKeyElems: 1, Record: tuple.FromStrings("a", "1")}))
	err = se.Insert(Insert{Table: id, NumKeyElems: 1, Record: tuple.FromStrings("a", "2")})
	assert.ErrorIs(t, err, bplus.ErrDuplicateKey)

	huge := strings.Repeat("k", bplus.MaxKeySize+1)
	err = se.Insert(Insert{Table: id, NumKeyElems: 1, Record: tuple.FromStrings(huge)})
	assert.ErrorIs(t, err, bplus.ErrKeyTooLarge)

	rows, err := se.QueryAll(Query{Plan: executor.SeqScan{Table: id}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tuple.FromStrings("a", "1"), rows[0])

	assert.Equal(t, 0, se.Stats().PinnedPages)
}

func TestFailedQueryReleasesPins(t *testing.T) {
	se := memoryEngine(t, 3)
	id, err := se.CreateTable(CreateTable{NumKeyElems: 1})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, se.Insert(Insert{Table: id, NumKeyElems: 1, Record: tuple.FromStrings(fmt.Sprintf("k%02d", i), "v")}))
	}

	_, err = se.Execute(Query{Plan: executor.Filter{
		From:  executor.SeqScan{Table: id},
		Where: executor.Eq{Left: executor.Column{Index: 7}, Right: executor.Literal{Value: []byte("v")}},
	}})
	assert.ErrorIs(t, err, executor.ErrColumnOutOfRange)
	assert.Equal(t, 0, se.Stats().PinnedPages)

	_, err = se.Execute(Query{})
	assert.ErrorIs(t, err, executor.ErrUnknownPlan)
}

func TestLazyQueryCanBeAbandoned(t *testing.T) {
	se := memoryEngine(t, 2)
	id, err := se.CreateTable(CreateTable{NumKeyElems: 1})
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		require.NoError(t, se.Insert(Insert{Table: id, NumKeyElems: 1, Record: tuple.FromStrings(fmt.Sprintf("%03d", i), strings.Repeat("x", 100))}))
	}

	exec, err := se.Query(Query{Plan: executor.SeqScan{Table: id}})
	require.NoError(t, err)
	row, ok, err := exec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "000", string(row[0]))

	// the open iterator holds no frame, so inserts still find room
	require.NoError(t, se.Insert(Insert{Table: id, NumKeyElems: 1, Record: tuple.FromStrings("999", "y")}))
	exec.Close()
	assert.Equal(t, 0, se.Stats().PinnedPages)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaf.db")

	se := fileEngine(t, path, 4)
	id, err := se.CreateTable(CreateTable{NumKeyElems: 1})
	require.NoError(t, err)
	for i := 299; i >= 0; i-- {
		require.NoError(t, se.Insert(Insert{Table: id, NumKeyElems: 1, Record: tuple.FromStrings(fmt.Sprintf("%04d", i), fmt.Sprintf("row-%d", i))}))
	}
	require.NoError(t, se.Close())
	require.NoError(t, se.Close())

	_, err = se.Execute(CreateTable{NumKeyElems: 1})
	assert.ErrorIs(t, err, ErrClosed)

	se = fileEngine(t, path, 4)
	defer se.Close()

	rows, err := se.QueryAll(Query{Plan: executor.SeqScan{Table: id}})
	require.NoError(t, err)
	require.Len(t, rows, 300)
	for i, row := range rows {
		assert.Equal(t, tuple.FromStrings(fmt.Sprintf("%04d", i), fmt.Sprintf("row-%d", i)), row)
	}

	// the declared key width survives the reopen
	err = se.Insert(Insert{Table: id, NumKeyElems: 2, Record: tuple.FromStrings("a", "b")})
	assert.ErrorIs(t, err, table.ErrSchemaMismatch)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.NewCfg()
	cfg.BufferPoolSize = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
