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

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/Zitzeronion/RTMsim/rtm"
	"github.com/Zitzeronion/RTMsim/snapshot"
)

// RestartCmd resumes a run from a previously written snapshot, per
// the run's restart parameters (restart, snapshot_id).
var RestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Resume a simulation from a snapshot",
	Long: `Loads the same kind of parameter file as run, but continues the
time loop from the state, time, and snapshot index recorded in
--snapshotID (default "latest") instead of starting the mold empty.`,
	Run: func(cmd *cobra.Command, args []string) {
		configFile, _ := cmd.Flags().GetString("config")
		snapshotDir, _ := cmd.Flags().GetString("snapshotDir")
		snapshotID, _ := cmd.Flags().GetString("snapshotID")

		p, err := loadParams(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
		p.Restart = true
		p.SnapshotID = snapshotID
		if err := p.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}

		dir, err := homedir.Expand(snapshotDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}

		if err := rtm.Run(p, dir, func(snap *snapshot.Snapshot) {
			fmt.Printf("snapshot %d at t=%g\n", snap.NOut, snap.T)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(RestartCmd)
	RestartCmd.Flags().StringP("config", "c", "", "YAML parameter file")
	RestartCmd.Flags().StringP("snapshotDir", "o", "~/.rtmsim/snapshots", "directory snapshots were written into")
	RestartCmd.Flags().String("snapshotID", "latest", "snapshot to resume from: \"latest\", a numbered file name, or a path")
	_ = RestartCmd.MarkFlagRequired("config")
}
