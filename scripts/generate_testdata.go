//go:build ignore

// generate_testdata.go creates JSON documents for profiling the viewer.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.json   (shallow, ~1k lines)
//	testdata/benchmark/medium.json  (~20k lines)
//	testdata/benchmark/large.json   (~200k lines)
//	testdata/benchmark/deep.json    (narrow, 500 levels)
//
// Profile with: JV_CPU_PROFILE=cpu.out jv print testdata/benchmark/large.json --depth 3
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/jsonview/pkg/editor"
	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
	"github.com/vanderheijden86/jsonview/pkg/linemodel"
	"github.com/vanderheijden86/jsonview/pkg/testutil"
)

type datasetSpec struct {
	name     string
	maxDepth int
	maxWidth int
	minLines int
}

var datasets = []datasetSpec{
	{"small", 3, 8, 1_000},
	{"medium", 5, 10, 20_000},
	{"large", 6, 14, 200_000},
}

func main() {
	outputDir := "testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (>= %d lines)...\n", ds.name, ds.minLines)
		gen := testutil.New(testutil.GeneratorConfig{
			Seed:     int64(ds.minLines), // reproducible per size
			MaxDepth: ds.maxDepth,
			MaxWidth: ds.maxWidth,
		})

		// Keep appending documents until the target size is reached.
		var elems []jsonvalue.Value
		lines := 2
		for lines < ds.minLines {
			doc := gen.Document()
			elems = append(elems, doc)
			lines += len(linemodel.Flatten(doc))
		}
		write(outputDir, ds.name, jsonvalue.Array(elems...))
	}

	fmt.Println("Generating deep dataset (500 levels)...")
	write(outputDir, "deep", testutil.Deep(500))
}

func write(dir, name string, v jsonvalue.Value) {
	path := filepath.Join(dir, name+".json")
	text := editor.Canonical(v) + "\n"
	if err := editor.WriteFileAtomic(path, []byte(text)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("  wrote %s (%d bytes)\n", path, len(text))
}
