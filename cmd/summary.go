package cmd

import (
	"github.com/notargets/apmesh/geometry2D"
	"github.com/notargets/apmesh/mesh"
	"github.com/notargets/apmesh/meshtools"
	"github.com/notargets/apmesh/types"
)

// Summary describes a built mesh, written by the build command
type Summary struct {
	Files          []string                `json:"files"`
	Mode           string                  `json:"mode"`
	Dimension      int                     `json:"dimension"`
	Nodes          int                     `json:"nodes"`
	Elements       int                     `json:"elements"`
	Columns        int                     `json:"columns"`
	Markers        []types.Marker          `json:"markers"`
	EdgesPerMarker map[types.Marker]int    `json:"edgesPerMarker"`
	BoundaryEdges  int                     `json:"boundaryEdges"`
	MaxValence     int                     `json:"maxValence"`
	BoundingBox    *geometry2D.BoundingBox `json:"boundingBox"`
}

func NewSummary(m *mesh.Mesh, files ...string) (s *Summary, err error) {
	s = &Summary{
		Files:          files,
		Mode:           m.Mode.String(),
		Dimension:      m.Dimension(),
		Nodes:          m.NumNodes(),
		Elements:       m.NumElements(),
		Columns:        len(m.Elements[0]),
		Markers:        m.Markers(),
		EdgesPerMarker: make(map[types.Marker]int),
		BoundaryEdges:  len(m.BoundaryEdges()),
		BoundingBox:    geometry2D.NewBoundingBox(m.Nodes),
	}
	for _, marker := range s.Markers {
		s.EdgesPerMarker[marker] = len(m.EdgeCollections[marker])
	}
	var valence []int
	if valence, err = meshtools.NodeValence(m.Corners(), m.NumNodes()); err != nil {
		return nil, err
	}
	for _, v := range valence {
		s.MaxValence = max(s.MaxValence, v)
	}
	return
}
