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
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/notargets/apmesh/InputParameters"
	"github.com/notargets/apmesh/mesh"
	"github.com/notargets/apmesh/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildCmd represents the build command
var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a mesh and print a YAML summary",
	Long: `
Reads one mesh file or a node/element table pair, builds it for the selected element family
and prints node, element, marker and boundary counts.

apmesh build -F unitsquare.mesh --argyris -o summary.yaml

With --input the Mode of the parameter file selects the element family, and every listed
mesh is summarized when no -F is given.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			inputs  [][]string
			mode    mesh.Mode
			outFile string
			mp      *InputParameters.MeshParameters
			w       io.Writer = os.Stdout
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
		outFile, _ = cmd.Flags().GetString("output")
		if outFile != "" {
			var f *os.File
			if f, err = os.Create(outFile); err != nil {
				return
			}
			defer f.Close()
			w = f
		}
		for i, files := range inputs {
			if i != 0 {
				fmt.Fprintln(w, "---")
			}
			if err = runBuild(w, mode, files...); err != nil {
				return
			}
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(BuildCmd)
	addMeshFlags(BuildCmd)
	BuildCmd.Flags().StringP("output", "o", "", "file to write the summary to, default is standard output")
}

func runBuild(w io.Writer, mode mesh.Mode, files ...string) (err error) {
	var (
		m    *mesh.Mesh
		s    *Summary
		data []byte
	)
	if m, err = mesh.ReadMesh(mode, files...); err != nil {
		return
	}
	if viper.GetBool("verbose") {
		fmt.Printf("Built %s mesh from %v: %d nodes, %d elements\n",
			mode, files, m.NumNodes(), m.NumElements())
		fmt.Println(utils.GetMemUsage())
	}
	if s, err = NewSummary(m, files...); err != nil {
		return
	}
	if data, err = yaml.Marshal(s); err != nil {
		return
	}
	_, err = w.Write(data)
	return
}
