package storageengine

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"LeafDB/config"
	executor "LeafDB/query_executor"
	"LeafDB/storage_engine/bufferpool"
	"LeafDB/storage_engine/catalog"
	diskmanager "LeafDB/storage_engine/disk_manager"
	"LeafDB/storage_engine/tuple"
	"LeafDB/types"
)

var ErrClosed = errors.New("storage engine is closed")

// StorageEngine is the process-scoped handle: one page store, one buffer
// pool over it, and the table catalog. It is not safe for concurrent use.
type StorageEngine struct {
	Cfg *config.Cfg

	DiskManager diskmanager.Pager
	BufferPool  *bufferpool.BufferPool
	Catalog     *catalog.Catalog

	closed bool
}

// ############################################# COMMANDS #############################################

// Command is a closed set: CreateTable, Insert, Query.
type Command interface {
	isCommand()
}

type CreateTable struct {
	NumKeyElems int
}

// Insert stores Record into Table. NumKeyElems must match the value the
// table was created with.
type Insert struct {
	Table       types.PageID
	NumKeyElems int
	Record      tuple.Tuple
}

type Query struct {
	Plan executor.Plan
}

func (CreateTable) isCommand() {}
func (Insert) isCommand()      {}
func (Query) isCommand()       {}

// ############################################# RESULTS #############################################

// Result is what Execute hands back to the front-end. String is the text
// printed by the REPL.
type Result interface {
	String() string
}

type CreateTableResult struct {
	TablePageID types.PageID
}

func (r CreateTableResult) String() string {
	return fmt.Sprintf("table_page_id = %d\n", uint64(r.TablePageID))
}

type InsertResult struct{}

func (InsertResult) String() string { return "" }

type QueryResult struct {
	Rows []tuple.Tuple
}

func (r QueryResult) String() string {
	var sb strings.Builder
	for _, row := range r.Rows {
		sb.WriteString(tuple.Pretty(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
