package readfiles

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/apmesh/types"
	"github.com/notargets/apmesh/utils"
)

// gmshElementType22 maps the Gmsh v2.2 element type numbers used by triangle meshes
var gmshElementType22 = map[int]utils.ElementType{
	1:  utils.Line,      // 2-node line
	2:  utils.Triangle,  // 3-node triangle
	8:  utils.Line3,     // 3-node line
	9:  utils.Triangle6, // 6-node triangle
	15: utils.Point,     // 1-node point
}

// ReadGmsh reads a Gmsh MSH file, ASCII format version 2.x
func ReadGmsh(filename string) (*RawMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &types.ParseError{File: filename, Msg: "unable to open file", Err: err}
	}
	defer file.Close()
	return ParseGmsh(file, filename)
}

type gmshReader struct {
	lr        *lineReader
	rm        *RawMesh
	names     map[int]string // physical names of dimension 1 groups
	nodeIndex map[int]int    // gmsh node id to 1-based position
	linear    [][]int
	quadratic [][]int
}

// ParseGmsh reads Gmsh 2.x ASCII content from r, name is used for error reports
func ParseGmsh(r io.Reader, name string) (rm *RawMesh, err error) {
	gr := &gmshReader{
		lr:    newLineReader(r, name, ""),
		rm:    &RawMesh{},
		names: make(map[int]string),
	}
	var haveFormat bool
	for {
		line, ok := gr.lr.next()
		if !ok {
			break
		}
		switch line {
		case "$MeshFormat":
			if err = gr.readMeshFormat(); err != nil {
				return nil, err
			}
			haveFormat = true
		case "$PhysicalNames":
			if err = gr.readPhysicalNames(); err != nil {
				return nil, err
			}
		case "$Nodes":
			if err = gr.readNodes(); err != nil {
				return nil, err
			}
		case "$Elements":
			if err = gr.readElements(); err != nil {
				return nil, err
			}
		default:
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				// Skip data sections
				if err = gr.lr.skipTo("$End" + line[1:]); err != nil {
					return nil, err
				}
			}
		}
	}
	if err = gr.lr.err(); err != nil {
		return nil, err
	}
	if !haveFormat {
		return nil, &types.ParseError{File: name, Msg: "could not find $MeshFormat section"}
	}
	if len(gr.linear) != 0 && len(gr.quadratic) != 0 {
		return nil, &types.ParseError{File: name, Msg: "mixed element orders: both 3-node and 6-node triangles present"}
	}
	rm = gr.rm
	rm.Elements = gr.linear
	if len(gr.quadratic) != 0 {
		rm.Elements = gr.quadratic
	}
	if err = rm.validate(name); err != nil {
		return nil, err
	}
	return
}

func (gr *gmshReader) readMeshFormat() (err error) {
	var line string
	if line, err = gr.lr.mustNext("$MeshFormat"); err != nil {
		return
	}
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return gr.lr.errorf("invalid MeshFormat line %q", line)
	}
	if !strings.HasPrefix(parts[0], "2.") {
		return gr.lr.errorf("unsupported Gmsh format version: %s", parts[0])
	}
	if parts[1] != "0" {
		return gr.lr.errorf("binary Gmsh files are not supported")
	}
	return gr.lr.skipTo("$EndMeshFormat")
}

// readPhysicalNames keeps the names of line groups, they label the boundary segments
func (gr *gmshReader) readPhysicalNames() (err error) {
	var (
		line     string
		numNames int
	)
	if line, err = gr.lr.mustNext("$PhysicalNames"); err != nil {
		return
	}
	if numNames, err = gr.lr.count(line, "physical name"); err != nil {
		return
	}
	for i := 0; i < numNames; i++ {
		if line, err = gr.lr.mustNext("physical names"); err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			return gr.lr.errorf("invalid physical name line %q", line)
		}
		var vals []int
		if vals, err = gr.lr.ints(parts[:2]); err != nil {
			return
		}
		// Join remaining parts if name contains spaces
		name := strings.Trim(strings.Join(parts[2:], " "), "\"")
		if vals[0] == 1 {
			gr.names[vals[1]] = name
		}
	}
	return gr.lr.skipTo("$EndPhysicalNames")
}

func (gr *gmshReader) readNodes() (err error) {
	var (
		line     string
		numNodes int
	)
	if line, err = gr.lr.mustNext("$Nodes"); err != nil {
		return
	}
	if numNodes, err = gr.lr.count(line, "node"); err != nil {
		return
	}
	gr.rm.Nodes = make([][]float64, 0, capacity(numNodes))
	gr.nodeIndex = make(map[int]int, capacity(numNodes))
	for i := 0; i < numNodes; i++ {
		if line, err = gr.lr.mustNext("nodes"); err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) < 4 {
			return gr.lr.errorf("invalid node line: %s", line)
		}
		var nodeID int
		if nodeID, err = strconv.Atoi(parts[0]); err != nil {
			return gr.lr.wrap("invalid node id", err)
		}
		if _, dup := gr.nodeIndex[nodeID]; dup {
			return gr.lr.errorf("duplicate node id %d", nodeID)
		}
		var coords []float64
		if coords, err = gr.lr.floats(parts[1:4]); err != nil {
			return
		}
		gr.rm.Nodes = append(gr.rm.Nodes, coords)
		gr.nodeIndex[nodeID] = i + 1
	}
	return gr.lr.skipTo("$EndNodes")
}

func (gr *gmshReader) readElements() (err error) {
	var (
		line        string
		numElements int
	)
	if gr.nodeIndex == nil {
		return gr.lr.errorf("$Elements section before $Nodes")
	}
	if line, err = gr.lr.mustNext("$Elements"); err != nil {
		return
	}
	if numElements, err = gr.lr.count(line, "element"); err != nil {
		return
	}
	for i := 0; i < numElements; i++ {
		if line, err = gr.lr.mustNext("elements"); err != nil {
			return
		}
		var vals []int
		if vals, err = gr.lr.ints(strings.Fields(line)); err != nil {
			return
		}
		if len(vals) < 3 {
			return gr.lr.errorf("invalid element line: %s", line)
		}
		elemType, numTags := vals[1], vals[2]
		if numTags < 0 || len(vals) < 3+numTags {
			return gr.lr.errorf("invalid tag count %d, line: %s", numTags, line)
		}
		tags := vals[3 : 3+numTags]
		etype, ok := gmshElementType22[elemType]
		if !ok {
			return gr.lr.errorf("unsupported element type %d in a triangle mesh", elemType)
		}
		nodeIDs := vals[3+numTags:]
		if len(nodeIDs) != etype.GetNumNodes() {
			return gr.lr.errorf("element %d: expected %d nodes, got %d", vals[0], etype.GetNumNodes(), len(nodeIDs))
		}
		nodes := make([]int, len(nodeIDs))
		for j, id := range nodeIDs {
			if nodes[j], ok = gr.nodeIndex[id]; !ok {
				return gr.lr.errorf("element %d references unknown node %d", vals[0], id)
			}
		}
		switch etype {
		case utils.Point:
		case utils.Line, utils.Line3:
			e := types.NewEdge(nodes[0], nodes[1], gr.marker(tags))
			if etype == utils.Line3 {
				e.Midpoint = nodes[2]
			}
			gr.rm.Edges = append(gr.rm.Edges, e)
		case utils.Triangle:
			gr.linear = append(gr.linear, nodes)
		case utils.Triangle6:
			gr.quadratic = append(gr.quadratic, nodes)
		}
	}
	return gr.lr.skipTo("$EndElements")
}

// marker labels a boundary line by its physical group: the group name when one is given, else the tag number
func (gr *gmshReader) marker(tags []int) types.Marker {
	var physicalTag int
	if len(tags) > 0 {
		physicalTag = tags[0]
	}
	if name, ok := gr.names[physicalTag]; ok {
		return types.Marker(name)
	}
	return types.NewMarker(physicalTag)
}
