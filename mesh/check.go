package mesh

import (
	"errors"
	"fmt"

	"github.com/notargets/apmesh/meshtools"
	"github.com/notargets/apmesh/readfiles"
	"github.com/notargets/apmesh/types"
	"gonum.org/v1/gonum/mat"
)

// ErrCheckFailed marks a cross-check property that does not hold, as opposed to a mesh that cannot be read or built
var ErrCheckFailed = errors.New("cross-check failed")

// Cross-check steps, in the order they run
const (
	StepParse       = "parse"
	StepSplitOrder  = "split order"
	StepLagrange    = "build lagrange"
	StepArgyris     = "build argyris"
	StepProjection  = "projection"
	StepMarkers     = "boundary markers"
	StepArgyrisDofs = "argyris dofs"
	StepCollections = "edge collections"
)

// Report summarizes a passing cross-check
type Report struct {
	Files           []string       `json:"files"`
	Nodes           int            `json:"nodes"`
	Elements        int            `json:"elements"`
	InputColumns    int            `json:"inputColumns"`
	HasMarkers      bool           `json:"hasMarkers"`
	FlattenedTo2D   bool           `json:"flattenedTo2D"`
	LagrangeNodes   int            `json:"lagrangeNodes"`
	LagrangeColumns int            `json:"lagrangeColumns"`
	ArgyrisNodes    int            `json:"argyrisNodes"`
	ArgyrisColumns  int            `json:"argyrisColumns"`
	Markers         []types.Marker `json:"markers,omitempty"`
	BoundaryEdges   int            `json:"boundaryEdges"`
	ProjectionError float64        `json:"projectionError"`
	Steps           []string       `json:"steps"`
}

func failf(step, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", step, ErrCheckFailed, fmt.Sprintf(format, args...))
}

func stepError(step string, err error) error {
	return fmt.Errorf("%s: %w", step, err)
}

/*
CrossCheck reads one mesh input, builds it both ways and verifies that the pieces agree:

 1. the input parses, and a split pair parses the same in reverse order
 2. the Lagrange and Argyris builds succeed
 3. projecting the input nodes onto two coordinates reproduces the built vertex nodes
 4. marked edges and the derived boundary are the same set of vertex pairs
 5. the Argyris dof bookkeeping is consistent
 6. every Lagrange collection edge is in the matching Argyris node collection, and the two boundary
    sets agree

The first failure is returned, prefixed with the step name.
*/
func CrossCheck(files ...string) (r *Report, err error) {
	var (
		raw, reversed     *readfiles.RawMesh
		lagrange, argyris *Mesh
	)
	r = &Report{Files: files}
	if raw, err = readfiles.ReadMesh(files...); err != nil {
		return nil, stepError(StepParse, err)
	}
	r.Steps = append(r.Steps, StepParse)
	if len(files) == 2 {
		if reversed, err = readfiles.ReadMesh(files[1], files[0]); err != nil {
			return nil, stepError(StepSplitOrder, err)
		}
		if !raw.Equal(reversed) {
			return nil, failf(StepSplitOrder, "%s and %s parse differently in reverse order", files[0], files[1])
		}
		r.Steps = append(r.Steps, StepSplitOrder)
	}
	r.Nodes, r.Elements, r.InputColumns = raw.NumNodes(), raw.NumElements(), len(raw.Elements[0])
	r.HasMarkers = raw.HasMarkers()

	if lagrange, err = Build(raw, Lagrange); err != nil {
		return nil, stepError(StepLagrange, err)
	}
	r.Steps = append(r.Steps, StepLagrange)
	r.LagrangeNodes, r.LagrangeColumns = lagrange.NumNodes(), len(lagrange.Elements[0])
	_, r.FlattenedTo2D = FlattenNodes(raw.Nodes)

	if argyris, err = Build(raw, Argyris); err != nil {
		return nil, stepError(StepArgyris, err)
	}
	r.Steps = append(r.Steps, StepArgyris)
	r.ArgyrisNodes, r.ArgyrisColumns = argyris.NumNodes(), len(argyris.Elements[0])

	if r.ProjectionError, err = checkProjection(raw, lagrange); err != nil {
		return nil, err
	}
	r.Steps = append(r.Steps, StepProjection)

	if raw.HasMarkers() {
		if err = checkMarkers(raw); err != nil {
			return nil, err
		}
		r.Steps = append(r.Steps, StepMarkers)
	}

	if err = ValidateArgyris(argyris); err != nil {
		return nil, stepError(StepArgyrisDofs, err)
	}
	r.Steps = append(r.Steps, StepArgyrisDofs)

	if err = checkCollections(lagrange, argyris); err != nil {
		return nil, err
	}
	r.Steps = append(r.Steps, StepCollections)
	r.Markers = lagrange.Markers()
	r.BoundaryEdges = len(argyris.BoundaryEdges())
	return
}

// checkProjection compares the first two input coordinates with the built vertex nodes
func checkProjection(raw *readfiles.RawMesh, lagrange *Mesh) (diff float64, err error) {
	var proj *mat.Dense
	N := raw.NumNodes()
	if proj, err = meshtools.ProjectNodes(meshtools.SelectColumns(0, 1), raw.Elements, denseNodes(raw.Nodes)); err != nil {
		return 0, stepError(StepProjection, err)
	}
	built := lagrange.Nodes.Slice(0, N, 0, 2)
	if !meshtools.NodesMatch(proj, built, meshtools.ProjectionTolerance) {
		return 0, failf(StepProjection, "projected nodes differ from the built nodes by %g, tolerance %g",
			meshtools.MaxDifference(proj, built), meshtools.ProjectionTolerance)
	}
	return meshtools.MaxDifference(proj, built), nil
}

func checkMarkers(raw *readfiles.RawMesh) (err error) {
	var boundary [][2]int
	if boundary, err = meshtools.ExtractBoundaryEdges(raw.Elements); err != nil {
		return stepError(StepMarkers, err)
	}
	if same, pair := meshtools.SamePairs(meshtools.EdgePairs(raw.Edges), meshtools.UnorderedPairs(boundary)); !same {
		return failf(StepMarkers, "edge %v is not in both the marked and the derived boundary", pair)
	}
	return
}

func checkCollections(lagrange, argyris *Mesh) error {
	byMarker := make(map[types.Marker]map[[2]int]struct{}, len(argyris.NodeCollections))
	for _, nc := range argyris.NodeCollections {
		pairs := make(map[[2]int]struct{}, len(nc.Edges))
		for _, ae := range nc.Edges {
			pairs[ae.Edge.Pair()] = struct{}{}
		}
		byMarker[nc.Marker] = pairs
	}
	for _, marker := range lagrange.Markers() {
		for _, e := range lagrange.EdgeCollections[marker] {
			if _, ok := byMarker[marker][e.Pair()]; !ok {
				return failf(StepCollections, "edge %s is missing from the Argyris node collection %q", e, marker)
			}
		}
	}
	if same, pair := meshtools.SamePairs(meshtools.EdgePairs(lagrange.BoundaryEdges()),
		meshtools.EdgePairs(argyris.BoundaryEdges())); !same {
		return failf(StepCollections, "edge %v is not in both the Lagrange and the Argyris boundary", pair)
	}
	return nil
}
