// REPL over a LeafDB data file. One JSON command per line, e.g.
//
//	leafdb> {"CreateTable":{"num_key_elems":1}}
//	table_page_id = 0
//
// Run: go run ./cmd/leafdb -config conf/leafdb.ini
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"LeafDB/config"
	"LeafDB/logger"
	"LeafDB/request"
	storageengine "LeafDB/storage_engine"
	diskmanager "LeafDB/storage_engine/disk_manager"
	"LeafDB/types"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to the ini config file")
	dataFile := flag.String("data", "", "data file (overrides [storage] data_file)")
	inMemory := flag.Bool("memory", false, "keep every page in memory, nothing is written to disk")
	poolSize := flag.Int("pool", 0, "buffer pool frames (overrides [storage] buffer_pool_size)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *inMemory {
		cfg.InMemory = true
	}
	if *poolSize > 0 {
		cfg.BufferPoolSize = *poolSize
	}

	if err := logger.InitLogger(logger.LogConfig{LogLevel: cfg.LogLevel, LogPath: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
	}

	se, err := storageengine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}

	code := repl(se)
	if err := se.Close(); err != nil {
		logger.Errorf("close: %v", err)
		code = 1
	}
	os.Exit(code)
}

func repl(se *storageengine.StorageEngine) int {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Print("leafdb> ")

		if !scanner.Scan() { // Ctrl+D pressed
			fmt.Println()
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "exit") {
			break
		}
		if line == "" {
			continue
		}
		if line == ".stats" {
			printStats(se)
			continue
		}

		cmd, err := request.Parse([]byte(line))
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		res, err := se.Execute(cmd)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			// the file may be half written, stop before touching it again
			if diskmanager.IsIOError(err) {
				logger.Errorf("I/O failure, exiting: %v", err)
				return 1
			}
			continue
		}
		fmt.Print(res.String())
	}

	if err := scanner.Err(); err != nil {
		logger.Errorf("read input: %v", err)
		return 1
	}
	return 0
}

func printStats(se *storageengine.StorageEngine) {
	s := se.Stats()
	pages := se.BufferPool.NumPages()
	fmt.Printf("pages on disk : %s (%s)\n", humanize.Comma(int64(pages)), humanize.IBytes(pages*types.PageSize))
	fmt.Printf("frames        : %d/%d resident, %d pinned, %d dirty\n", s.TotalPages, s.Capacity, s.PinnedPages, s.DirtyPages)
	fmt.Printf("hits / misses : %s / %s (%.1f%%)\n", humanize.Comma(int64(s.Hits)), humanize.Comma(int64(s.Misses)), s.HitRate()*100)
	fmt.Printf("evictions     : %s, flushes: %s\n", humanize.Comma(int64(s.Evictions)), humanize.Comma(int64(s.Flushes)))
}
