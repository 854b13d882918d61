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
	"time"

	"github.com/notargets/apmesh/InputParameters"
	"github.com/notargets/apmesh/mesh"
	"github.com/notargets/apmesh/plotting"
	"github.com/spf13/cobra"
)

// PlotCmd represents the plot command
var PlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Display a mesh in a chart window",
	Long: `
Draws the triangulation of a mesh with its boundary segments in color:

apmesh plot -F unitsquare.msh --points -w 60

With --input the parameter file supplies the meshes, the Mode and PlotPoints.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			inputs [][]string
			mode   mesh.Mode
			m      *mesh.Mesh
			mp     *InputParameters.MeshParameters
		)
		if mp, err = readInput(cmd); err != nil {
			return
		}
		if inputs, err = meshInputs(cmd, mp); err != nil {
			return
		}
		if mode, err = meshMode(cmd, mp); err != nil {
			return
		}
		points, _ := cmd.Flags().GetBool("points")
		if mp != nil && !cmd.Flags().Changed("points") {
			points = mp.PlotPoints
		}
		wait, _ := cmd.Flags().GetInt("wait")
		for _, files := range inputs {
			if m, err = mesh.ReadMesh(mode, files...); err != nil {
				return
			}
			plotMesh(m, points, time.Duration(wait)*time.Second)
		}
		return
	},
}

// plotMesh opens the chart window, replaced in tests that run without a display
var plotMesh = plotting.PlotMesh

func init() {
	rootCmd.AddCommand(PlotCmd)
	addMeshFlags(PlotCmd)
	addWaitFlag(PlotCmd)
	PlotCmd.Flags().BoolP("points", "p", false, "mark every node")
}

func addWaitFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("wait", "w", 30, "seconds to keep each chart open")
}
