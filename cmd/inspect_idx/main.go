// Inspect the B+ tree of one table in a LeafDB data file.
// Usage: go run ./cmd/inspect_idx [-table N] [-rows] <data file>
// Example: go run ./cmd/inspect_idx -table 0 data/leaf.db
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"LeafDB/storage_engine/bufferpool"
	diskmanager "LeafDB/storage_engine/disk_manager"
	"LeafDB/storage_engine/table"
	"LeafDB/storage_engine/tuple"
	"LeafDB/types"
)

func main() {
	tableID := flag.Uint64("table", 0, "table id (meta page id)")
	rows := flag.Bool("rows", false, "also print every row decoded")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-table N] [-rows] <data file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s -table 0 data/leaf.db\n", os.Args[0])
		os.Exit(1)
	}
	if err := inspect(flag.Arg(0), types.PageID(*tableID), *rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func inspect(path string, id types.PageID, withRows bool) error {
	dm, err := diskmanager.Open(path)
	if err != nil {
		return err
	}
	pool, err := bufferpool.NewBufferPool(16, dm)
	if err != nil {
		dm.Close()
		return err
	}
	defer pool.Close()

	fmt.Printf("File: %s\n", path)
	fmt.Printf("  Size: %s (%s pages of %d bytes)\n",
		humanize.IBytes(dm.NumPages()*types.PageSize), humanize.Comma(int64(dm.NumPages())), types.PageSize)

	tbl, err := table.Open(pool, id)
	if err != nil {
		return err
	}
	stats, err := tbl.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("  Table %d: num_key_elems=%d height=%d branches=%d leaves=%d rows=%s\n\n",
		id, tbl.NumKeyElems, stats.Height, stats.Branches, stats.Leaves, humanize.Comma(int64(stats.Pairs)))

	if err := tbl.Tree().Dump(os.Stdout); err != nil {
		return err
	}
	if !withRows {
		return nil
	}

	fmt.Println("\n  Rows:")
	it, err := tbl.Scan()
	if err != nil {
		return err
	}
	defer it.Close()
	for {
		row, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fmt.Printf("    %s\n", tuple.Pretty(row))
	}
}
