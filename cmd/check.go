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
	"sync"
	"time"

	"github.com/notargets/apmesh/InputParameters"
	"github.com/notargets/apmesh/mesh"
	"github.com/notargets/apmesh/partition"
	"github.com/notargets/apmesh/readfiles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Cross-check the Lagrange and Argyris builds of one or more meshes",
	Long: `
Parses each mesh input, builds it both ways and verifies projection, boundary markers,
Argyris dof bookkeeping and edge collections. Inputs come from -F or from the Meshes
list of a YAML parameter file, whose Partitions and Plot settings also partition and
display every mesh that passes:

apmesh check -F linears1_nodes.txt -F linears1_elements.txt
apmesh check --input params.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			inputs [][]string
			mp     *InputParameters.MeshParameters
		)
		if mp, err = readInput(cmd); err != nil {
			return
		}
		if mp != nil {
			inputs = mp.Meshes
		}
		if files, _ := cmd.Flags().GetStringSlice("meshFile"); len(files) != 0 {
			inputs = append(inputs, files)
		}
		if len(inputs) == 0 {
			return fmt.Errorf("must supply a mesh file (-F, --meshFile) or a parameter file (-I, --input)")
		}
		wait, _ := cmd.Flags().GetInt("wait")
		return runCheck(os.Stdout, mp, time.Duration(wait)*time.Second, inputs...)
	},
}

func init() {
	rootCmd.AddCommand(CheckCmd)
	CheckCmd.Flags().StringSliceP("meshFile", "F", nil,
		"mesh file, or give -F twice for a node/element table pair")
	addInputFlag(CheckCmd)
	addWaitFlag(CheckCmd)
}

type checkResult struct {
	report    *mesh.Report
	partition *partition.Result
	err       error
}

/*
runCheck cross-checks every input in parallel and reports them in input order. With a parameter file,
inputs that pass are also split into Partitions parts when that is more than one, and plotted in the
file's Mode when Plot is set, each chart staying up for wait.
*/
func runCheck(w io.Writer, mp *InputParameters.MeshParameters, wait time.Duration, inputs ...[]string) (err error) {
	var (
		wg      sync.WaitGroup
		results = make([]checkResult, len(inputs))
		failed  int
	)
	for i, files := range inputs {
		wg.Add(1)
		go func(i int, files []string) {
			defer wg.Done()
			res := &results[i]
			if res.report, res.err = mesh.CrossCheck(files...); res.err != nil {
				return
			}
			if mp != nil && mp.Partitions > 1 {
				res.partition, res.err = partitionInput(files, mp.Partitions)
			}
		}(i, files)
	}
	wg.Wait()
	for i, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %v: %v\n", inputs[i], res.err)
			continue
		}
		r := res.report
		fmt.Fprintf(w, "ok   %v: %d nodes, %d elements, lagrange %d nodes, argyris %d nodes, %d boundary edges\n",
			inputs[i], r.Nodes, r.Elements, r.LagrangeNodes, r.ArgyrisNodes, r.BoundaryEdges)
		if viper.GetBool("verbose") {
			fmt.Fprintf(w, "     steps %v, projection error %g\n", r.Steps, r.ProjectionError)
		}
		if mp == nil {
			continue
		}
		if len(mp.BCs) != 0 {
			if missing := mp.Unassigned(r.Markers); len(missing) != 0 {
				fmt.Fprintf(w, "     segments without a boundary condition: %v\n", missing)
			}
		}
		if pr := res.partition; pr != nil {
			fmt.Fprintf(w, "     %d partitions, %d cut edges\n", len(pr.Parts), pr.CutEdges)
		}
		if mp.Plot {
			if err = plotInput(mp, wait, inputs[i]); err != nil {
				return
			}
		}
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d mesh inputs failed the cross-check", failed, len(inputs))
	}
	return
}

func partitionInput(files []string, nparts int) (r *partition.Result, err error) {
	var rm *readfiles.RawMesh
	if rm, err = readfiles.ReadMesh(files...); err != nil {
		return
	}
	if r, err = partition.PartitionElements(rm.Elements, rm.NumNodes(), partition.DefaultConfig(int32(nparts))); err != nil {
		return nil, fmt.Errorf("partitioning into %d parts: %w", nparts, err)
	}
	return
}

func plotInput(mp *InputParameters.MeshParameters, wait time.Duration, files []string) (err error) {
	var (
		mode mesh.Mode
		m    *mesh.Mesh
	)
	if mode, err = mp.MeshMode(); err != nil {
		return
	}
	if m, err = mesh.ReadMesh(mode, files...); err != nil {
		return
	}
	plotMesh(m, mp.PlotPoints, wait)
	return
}
