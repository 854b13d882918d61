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
	"github.com/notargets/apmesh/partition"
	"github.com/notargets/apmesh/readfiles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PartitionCmd represents the partition command
var PartitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Partition the elements of a mesh with METIS and print the partition statistics",
	Long: `
Splits the element dual graph of a mesh into parts and prints the element count and cut
sides of each part as YAML:

apmesh partition -F unitsquare.mesh -n 4
apmesh partition --input params.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			inputs [][]string
			mp     *InputParameters.MeshParameters
		)
		if mp, err = readInput(cmd); err != nil {
			return
		}
		if inputs, err = meshInputs(cmd, mp); err != nil {
			return
		}
		nparts, _ := cmd.Flags().GetInt32("parts")
		if mp != nil && mp.Partitions > 0 && !cmd.Flags().Changed("parts") {
			nparts = int32(mp.Partitions)
		}
		cfg := partition.DefaultConfig(nparts)
		cfg.Objective, _ = cmd.Flags().GetString("objective")
		cfg.Verbose = viper.GetBool("verbose")
		block, _ := cmd.Flags().GetBool("block")
		for i, files := range inputs {
			if i != 0 {
				fmt.Println("---")
			}
			if err = runPartition(os.Stdout, cfg, block, files...); err != nil {
				return
			}
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(PartitionCmd)
	PartitionCmd.Flags().StringSliceP("meshFile", "F", nil,
		"mesh file, or give -F twice for a node/element table pair")
	addInputFlag(PartitionCmd)
	PartitionCmd.Flags().Int32P("parts", "n", 2, "number of partitions, overrides the parameter file")
	PartitionCmd.Flags().String("objective", "cut", "METIS objective: cut or vol")
	PartitionCmd.Flags().Bool("block", false, "split into contiguous element ranges instead of calling METIS")
}

func runPartition(w io.Writer, cfg *partition.Config, block bool, files ...string) (err error) {
	var (
		rm   *readfiles.RawMesh
		r    *partition.Result
		data []byte
	)
	if cfg.Objective != "cut" && cfg.Objective != "vol" {
		return fmt.Errorf("unknown objective %q, use cut or vol", cfg.Objective)
	}
	if rm, err = readfiles.ReadMesh(files...); err != nil {
		return
	}
	if block {
		r, err = partition.BlockPartition(rm.Elements, rm.NumNodes(), int(cfg.NumPartitions))
	} else {
		r, err = partition.PartitionElements(rm.Elements, rm.NumNodes(), cfg)
	}
	if err != nil {
		return
	}
	if data, err = yaml.Marshal(r); err != nil {
		return
	}
	_, err = w.Write(data)
	return
}
