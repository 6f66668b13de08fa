// dump_sample runs the seed and the table inspector, writing all output to
// cmd/sample_run_output.txt. Run from repo root: go run ./cmd/dump_sample
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	sampleFile = "data/sample.db"
	outputFile = "cmd/sample_run_output.txt"
)

func main() {
	outPath := outputFile
	// If run from cmd/dump_sample, output next to binary
	if _, err := os.Stat("cmd"); os.IsNotExist(err) {
		outPath = "sample_run_output.txt"
	}

	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	root := repoRoot()
	run := func(title string, args ...string) {
		fmt.Fprintf(f, "========== %s ==========\n", title)
		cmd := exec.Command("go", append([]string{"run"}, args...)...)
		cmd.Stdout = f
		cmd.Stderr = f
		cmd.Dir = root
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(f, "%s exited with error: %v\n", args[0], err)
		}
		fmt.Fprintln(f)
	}

	// 1) Seed a small file so the dump stays readable but still splits
	run("SEED (create table 0, insert people + 300 rows, filter query)",
		"./cmd/seed", "-out", sampleFile, "-n", "300")

	// 2) Dump table 0
	run("INSPECT table 0", "./cmd/inspect_idx", "-table", "0", "-rows", sampleFile)

	fmt.Printf("Output written to %s\n", outPath)
}

func repoRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
