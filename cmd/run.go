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

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Zitzeronion/RTMsim/config"
	"github.com/Zitzeronion/RTMsim/rtm"
	"github.com/Zitzeronion/RTMsim/snapshot"
)

// RunCmd represents the run command.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a resin-fill simulation from a parameter file",
	Long: `Loads a YAML parameter bundle (mesh source, physical and boundary
parameters, patches) and drives the solver to t_max, writing a numbered
and a canonical snapshot to --snapshotDir at each scheduled instant.`,
	Run: func(cmd *cobra.Command, args []string) {
		configFile, _ := cmd.Flags().GetString("config")
		snapshotDir, _ := cmd.Flags().GetString("snapshotDir")

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

		if err := rtm.Run(p, dir, func(snap *snapshot.Snapshot) {
			fmt.Printf("snapshot %d at t=%g\n", snap.NOut, snap.T)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
	},
}

// loadParams reads configFile through viper -- which layers in any
// RTMSIM_-prefixed environment variable override via AutomaticEnv --
// then hands the merged settings to config.Load so validation and the
// ghodss/yaml-based json-tag decoding stay in one place.
func loadParams(configFile string) (*config.Params, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetEnvPrefix("RTMSIM")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return nil, err
	}
	return config.Load(data)
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("config", "c", "", "YAML parameter file")
	RunCmd.Flags().StringP("snapshotDir", "o", "~/.rtmsim/snapshots", "directory to write snapshot files into")
	_ = RunCmd.MarkFlagRequired("config")
}
