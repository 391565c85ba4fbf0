package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/lukaszgryglicki/caliper3d/internal/caliper3d"
)

func main() {
	caliper3d.SwitchesFromEnv()
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := caliper3d.ConfigPath
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := caliper3d.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		if profile {
			pprof.StopCPUProfile()
		}
		os.Exit(1)
	}
}
