package InputParameters

import (
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/notargets/apmesh/mesh"
	"github.com/notargets/apmesh/types"
)

// Parameters obtained from the YAML input file
type MeshParameters struct {
	Title      string            `json:"Title"`
	Meshes     [][]string        `json:"Meshes"` // Each entry is one mesh file or a node/element table pair
	Mode       string            `json:"Mode"`   // lagrange or argyris
	Partitions int               `json:"Partitions"`
	Plot       bool              `json:"Plot"`
	PlotPoints bool              `json:"PlotPoints"`
	BCs        map[string]string `json:"BCs"` // Boundary segment marker -> boundary condition kind
}

func (mp *MeshParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, mp); err != nil {
		return
	}
	for i, files := range mp.Meshes {
		if len(files) < 1 || len(files) > 2 {
			return fmt.Errorf("mesh input %d: expected one mesh file or a node/element pair, have %d files",
				i+1, len(files))
		}
	}
	if _, err = mp.MeshMode(); err != nil {
		return
	}
	if mp.Partitions < 0 {
		return fmt.Errorf("negative partition count %d", mp.Partitions)
	}
	_, err = mp.BoundaryConditions()
	return
}

// ReadFile parses a YAML parameter file
func ReadFile(fileName string) (mp *MeshParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	mp = &MeshParameters{}
	if err = mp.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return
}

func (mp *MeshParameters) MeshMode() (mesh.Mode, error) { return mesh.NewMode(mp.Mode) }

// BoundaryConditions maps each named segment to its boundary condition flag
func (mp *MeshParameters) BoundaryConditions() (bcs map[types.Marker]types.BCFLAG, err error) {
	bcs = make(map[types.Marker]types.BCFLAG, len(mp.BCs))
	for marker, name := range mp.BCs {
		flag, ok := types.NewBCFLAG(name)
		if !ok {
			return nil, fmt.Errorf("unknown boundary condition %q for segment %q", name, marker)
		}
		bcs[types.Marker(marker)] = flag
	}
	return
}

func (mp *MeshParameters) Print() { mp.Fprint(os.Stdout) }

func (mp *MeshParameters) Fprint(w io.Writer) {
	mode, _ := mp.MeshMode()
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", mp.Title)
	fmt.Fprintf(w, "[%s]\t\t= Mode\n", mode)
	fmt.Fprintf(w, "[%d]\t\t\t= Partitions\n", mp.Partitions)
	for _, files := range mp.Meshes {
		fmt.Fprintf(w, "Mesh = %v\n", files)
	}
	bcs, _ := mp.BoundaryConditions()
	keys := make([]types.Marker, 0, len(bcs))
	for k := range bcs {
		keys = append(keys, k)
	}
	types.SortMarkers(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "BCs[%s] = %s\n", key, bcs[key])
	}
}

// Unassigned lists the markers of a mesh that have no boundary condition
func (mp *MeshParameters) Unassigned(markers []types.Marker) (missing []types.Marker) {
	for _, marker := range markers {
		if _, ok := mp.BCs[string(marker)]; !ok {
			missing = append(missing, marker)
		}
	}
	return
}
