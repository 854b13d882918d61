package cmd

import (
	"fmt"

	"github.com/notargets/apmesh/InputParameters"
	"github.com/notargets/apmesh/mesh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addMeshFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("meshFile", "F", nil,
		"mesh file (.mesh, .msh, .su2, .neu), or give -F twice for a node/element table pair")
	cmd.Flags().Bool("argyris", false, "build Argyris elements, overrides --mode and the parameter file")
	addInputFlag(cmd)
}

func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "I", "", "YAML parameter file with the mesh list and run settings")
}

// readInput loads the --input parameter file, mp is nil when the flag is not given
func readInput(cmd *cobra.Command) (mp *InputParameters.MeshParameters, err error) {
	inputFile, _ := cmd.Flags().GetString("input")
	if inputFile == "" {
		return
	}
	if mp, err = InputParameters.ReadFile(inputFile); err != nil {
		return nil, err
	}
	if viper.GetBool("verbose") {
		mp.Print()
	}
	return
}

func meshFiles(cmd *cobra.Command) (files []string, err error) {
	if files, err = cmd.Flags().GetStringSlice("meshFile"); err != nil {
		return
	}
	if len(files) == 0 {
		err = fmt.Errorf("must supply a mesh file (-F, --meshFile)")
	}
	return
}

// meshInputs is the -F input when given, else every mesh listed in the parameter file
func meshInputs(cmd *cobra.Command, mp *InputParameters.MeshParameters) (inputs [][]string, err error) {
	if files, _ := cmd.Flags().GetStringSlice("meshFile"); len(files) != 0 {
		return [][]string{files}, nil
	}
	if mp != nil && len(mp.Meshes) != 0 {
		return mp.Meshes, nil
	}
	return nil, fmt.Errorf("must supply a mesh file (-F, --meshFile) or a parameter file listing meshes (-I, --input)")
}

// meshMode is Argyris when --argyris is given, then the parameter file's Mode, else the configured --mode
func meshMode(cmd *cobra.Command, mp *InputParameters.MeshParameters) (mesh.Mode, error) {
	if argyris, _ := cmd.Flags().GetBool("argyris"); argyris {
		return mesh.Argyris, nil
	}
	if mp != nil && mp.Mode != "" {
		return mp.MeshMode()
	}
	return mesh.NewMode(viper.GetString("mode"))
}
