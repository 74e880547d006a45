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
	"github.com/spf13/cobra"
)

// rootCmd is the base command every subcommand in this package attaches
// to via init().
var rootCmd = &cobra.Command{
	Use:   "rtmsim",
	Short: "Resin transfer moulding fill simulator",
	Long: `rtmsim advances a compressible Darcy-flow finite-area model of
resin impregnating a thin fibrous preform during resin transfer moulding,
and reports fill fraction, pressure, density, and velocity at scheduled
snapshots.`,
}

// Execute runs the selected subcommand; main.go's only job is to call
// this and report a nonzero exit status on error.
func Execute() error {
	return rootCmd.Execute()
}
