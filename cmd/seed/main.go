// Seed program: creates a fresh data file holding the sample people table
// (id | first_name | last_name) plus n generated rows.
// Run: go run ./cmd/seed -out data/sample.db -n 10000
// Then inspect: go run ./cmd/inspect_idx data/sample.db
package main

import (
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"

	"LeafDB/config"
	"LeafDB/logger"
	executor "LeafDB/query_executor"
	storageengine "LeafDB/storage_engine"
	"LeafDB/storage_engine/tuple"
)

func main() {
	out := flag.String("out", "data/sample.db", "data file to (re)create")
	n := flag.Int("n", 10000, "generated rows on top of the five sample people")
	flag.Parse()

	if err := os.Remove(*out); err != nil && !os.IsNotExist(err) {
		log.Fatalf("remove %s: %v", *out, err)
	}
	if err := logger.InitLogger(logger.LogConfig{LogLevel: "info"}); err != nil {
		log.Fatalf("logger: %v", err)
	}

	cfg := config.NewCfg()
	cfg.DataFile = *out
	cfg.BufferPoolSize = 32
	se, err := storageengine.New(cfg)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer se.Close()

	id, err := se.CreateTable(storageengine.CreateTable{NumKeyElems: 1})
	if err != nil {
		log.Fatalf("create table: %v", err)
	}
	fmt.Printf("table_page_id = %d\n", id)

	insert := func(cols ...[]byte) {
		if err := se.Insert(storageengine.Insert{Table: id, NumKeyElems: 1, Record: tuple.Tuple(cols)}); err != nil {
			log.Fatalf("insert %s: %v", tuple.Pretty(cols), err)
		}
	}

	for _, p := range [][]string{
		{"z", "Alice", "Smith"},
		{"x", "Bob", "Johnson"},
		{"y", "Charlie", "Williams"},
		{"w", "Dave", "Miller"},
		{"v", "Eve", "Brown"},
	} {
		insert(tuple.FromStrings(p...)...)
	}

	// big-endian ids sort numerically; the other two columns are just filler
	for i := 0; i < *n; i++ {
		var pkey [4]byte
		binary.BigEndian.PutUint32(pkey[:], uint32(i))
		sum := xxhash.Sum64(pkey[:])
		var digest [8]byte
		binary.BigEndian.PutUint64(digest[:], sum)
		insert(pkey[:], []byte(hex.EncodeToString(digest[:])), []byte(humanize.Ordinal(i)))
	}

	rows, err := se.QueryAll(storageengine.Query{Plan: executor.Filter{
		From: executor.SeqScan{Table: id},
		Where: executor.Or{
			Left:  executor.Eq{Left: executor.Column{Index: 1}, Right: executor.Literal{Value: []byte("Charlie")}},
			Right: executor.Eq{Left: executor.Column{Index: 1}, Right: executor.Literal{Value: []byte("Alice")}},
		},
	}})
	if err != nil {
		log.Fatalf("query: %v", err)
	}
	fmt.Print(storageengine.QueryResult{Rows: rows}.String())

	stats := se.Stats()
	fmt.Printf("seeded %s rows, %s pages, hit rate %.1f%%\n",
		humanize.Comma(int64(*n+5)), humanize.Comma(int64(se.BufferPool.NumPages())), stats.HitRate()*100)
}
