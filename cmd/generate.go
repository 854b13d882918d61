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
	"path/filepath"
	"strings"

	"github.com/notargets/apmesh/geometry2D"
	"github.com/notargets/apmesh/readfiles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a Delaunay triangulation of a rectangle",
	Long: `
Triangulates an nx by ny lattice of points in a rectangle, marks the sides 1 bottom, 2 right,
3 top, 4 left and writes the mesh in medit form, or as a node/element table pair:

apmesh generate --nx 5 --ny 5 -o square.mesh
apmesh generate --nx 5 --ny 5 --tables -o square   # square_nodes.txt, square_elements.txt`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			nx, ny  int
			box     []float64
			outFile string
			tables  bool
		)
		nx, _ = cmd.Flags().GetInt("nx")
		ny, _ = cmd.Flags().GetInt("ny")
		if box, err = cmd.Flags().GetFloat64Slice("box"); err != nil {
			return
		}
		if len(box) != 4 {
			return fmt.Errorf("--box needs xmin,ymin,xmax,ymax, have %v", box)
		}
		if outFile, _ = cmd.Flags().GetString("output"); outFile == "" {
			return fmt.Errorf("must supply an output file (-o, --output)")
		}
		tables, _ = cmd.Flags().GetBool("tables")
		bb := geometry2D.BoundingBox{XMin: [2]float64{box[0], box[1]}, XMax: [2]float64{box[2], box[3]}}
		var written []string
		if written, err = runGenerate(nx, ny, bb, outFile, tables); err != nil {
			return
		}
		if viper.GetBool("verbose") {
			fmt.Printf("Wrote %v\n", written)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(GenerateCmd)
	GenerateCmd.Flags().Int("nx", 5, "number of points along x")
	GenerateCmd.Flags().Int("ny", 5, "number of points along y")
	GenerateCmd.Flags().Float64Slice("box", []float64{0, 0, 1, 1}, "rectangle as xmin,ymin,xmax,ymax")
	GenerateCmd.Flags().StringP("output", "o", "", "output mesh file, or base name with --tables")
	GenerateCmd.Flags().Bool("tables", false, "write split node and element tables")
}

// runGenerate writes the generated mesh and returns the names of the files written
func runGenerate(nx, ny int, box geometry2D.BoundingBox, outFile string, tables bool) (written []string, err error) {
	var rm *readfiles.RawMesh
	if rm, err = geometry2D.NewRectangleMesh(nx, ny, box); err != nil {
		return
	}
	if !tables {
		var f *os.File
		if f, err = os.Create(outFile); err != nil {
			return
		}
		defer f.Close()
		if err = readfiles.WriteMedit(f, rm); err != nil {
			return
		}
		return []string{outFile}, nil
	}
	var (
		base          = strings.TrimSuffix(outFile, filepath.Ext(outFile))
		nodesFile     = base + "_nodes.txt"
		elementsFile  = base + "_elements.txt"
		nodesF, elemF *os.File
	)
	if nodesF, err = os.Create(nodesFile); err != nil {
		return
	}
	defer nodesF.Close()
	if elemF, err = os.Create(elementsFile); err != nil {
		return
	}
	defer elemF.Close()
	if err = readfiles.WriteTables(nodesF, elemF, rm); err != nil {
		return
	}
	return []string{nodesFile, elementsFile}, nil
}
