/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/Zitzeronion/RTMsim/rtm"
	"github.com/Zitzeronion/RTMsim/snapshot"
)

// BenchCmd runs a simulation the same way run does, but reports wall
// time and, with --cpuprofile, captures a pprof CPU profile of rtm.Run
// (mesh assembly and time loop) -- useful when solver.parallelFor's worker count or the gradient
// reconstruction's cost needs attention.
var BenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a simulation and report timing, optionally under CPU profiling",
	Run: func(cmd *cobra.Command, args []string) {
		configFile, _ := cmd.Flags().GetString("config")
		snapshotDir, _ := cmd.Flags().GetString("snapshotDir")
		cpuprofile, _ := cmd.Flags().GetBool("cpuprofile")

		p, err := loadParams(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}

		dir, err := homedir.Expand(snapshotDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}

		if cpuprofile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}

		start := time.Now()
		nSnaps := 0
		err = rtm.Run(p, dir, func(_ *snapshot.Snapshot) { nSnaps++ })
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("completed t_max=%g in %s (%d snapshots)\n", p.TMax, elapsed, nSnaps)
	},
}

func init() {
	rootCmd.AddCommand(BenchCmd)
	BenchCmd.Flags().StringP("config", "c", "", "YAML parameter file")
	BenchCmd.Flags().StringP("snapshotDir", "o", "~/.rtmsim/snapshots", "directory to write snapshot files into")
	BenchCmd.Flags().Bool("cpuprofile", false, "capture a pprof CPU profile of the run into cpu.pprof")
	_ = BenchCmd.MarkFlagRequired("config")
}
