package InputParameters

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/apmesh/mesh"
	"github.com/notargets/apmesh/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inputFile = []byte(`
Title: "Unit square plate"
Meshes:
  - [unitsquare.mesh]
  - [linears1_nodes.txt, linears1_elements.txt]
Mode: Argyris
Partitions: 2
Plot: false
BCs:
  1: clamped
  2: Simply_Supported
  3: clamped
  4: natural
`)

func TestParse(t *testing.T) {
	var mp MeshParameters
	require.NoError(t, mp.Parse(inputFile))
	assert.Equal(t, "Unit square plate", mp.Title)
	assert.Equal(t, [][]string{{"unitsquare.mesh"}, {"linears1_nodes.txt", "linears1_elements.txt"}}, mp.Meshes)
	assert.Equal(t, 2, mp.Partitions)
	mode, err := mp.MeshMode()
	require.NoError(t, err)
	assert.Equal(t, mesh.Argyris, mode)

	bcs, err := mp.BoundaryConditions()
	require.NoError(t, err)
	assert.Equal(t, map[types.Marker]types.BCFLAG{
		"1": types.BC_Clamped,
		"2": types.BC_SimplySupported,
		"3": types.BC_Clamped,
		"4": types.BC_Neuman,
	}, bcs)
	assert.Equal(t, []types.Marker{"boundary"}, mp.Unassigned([]types.Marker{"1", "boundary", "4"}))

	var buf bytes.Buffer
	mp.Fprint(&buf)
	assert.Contains(t, buf.String(), "\"Unit square plate\"")
	assert.Contains(t, buf.String(), "[Argyris]")
	assert.Contains(t, buf.String(), "BCs[2] = SimplySupported\n")
}

func TestParseErrors(t *testing.T) {
	for name, data := range map[string]string{
		"mode":       "Mode: hermite\n",
		"bc":         "BCs:\n  wall: sticky\n",
		"files":      "Meshes:\n  - [a, b, c]\n",
		"partitions": "Partitions: -1\n",
		"yaml":       "Meshes: [\n",
	} {
		var mp MeshParameters
		assert.Error(t, mp.Parse([]byte(data)), name)
	}
}

func TestReadFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(fileName, inputFile, 0644))
	mp, err := ReadFile(fileName)
	require.NoError(t, err)
	assert.Len(t, mp.Meshes, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
