package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/vanderheijden86/jsonview/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	// CPU profiling support: JV_CPU_PROFILE=cpu.out jv view big.json
	if path := os.Getenv("JV_CPU_PROFILE"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
