package partition

import (
	"fmt"
	"log"

	"github.com/notargets/apmesh/meshtools"
	metis "github.com/notargets/go-metis"
)

// Config holds configuration for element partitioning
type Config struct {
	NumPartitions   int32
	ImbalanceFactor float32 // e.g., 1.05 for 5% imbalance
	UseEdgeWeights  bool
	Objective       string // "cut" or "vol"
	Verbose         bool
}

// DefaultConfig returns the default partitioning configuration
func DefaultConfig(nparts int32) *Config {
	return &Config{
		NumPartitions:   nparts,
		ImbalanceFactor: 1.05,
		UseEdgeWeights:  true,
		Objective:       "cut",
	}
}

// Stats holds statistics for a single partition
type Stats struct {
	ID          int         `json:"id"`
	NumElements int         `json:"elements"`
	CutEdges    int         `json:"cutEdges"`
	Neighbors   map[int]int `json:"neighbors,omitempty"` // neighbor partition -> shared sides
}

// Result is a partition id per element plus the per partition statistics
type Result struct {
	EToP      []int   `json:"-"`
	Objective int32   `json:"objective"`
	CutEdges  int     `json:"cutEdges"`
	Parts     []Stats `json:"parts"`
}

/*
PartitionElements assigns every element of a triangle mesh to one of cfg.NumPartitions parts by partitioning
the element dual graph, in which two elements are joined when they share a side. Element ids in the result
are zero based, in the order of elements. A single partition takes every element without calling METIS.
*/
func PartitionElements(elements [][]int, numNodes int, cfg *Config) (r *Result, err error) {
	if cfg == nil || cfg.NumPartitions < 1 {
		return nil, fmt.Errorf("partitioning needs at least one part")
	}
	var adj [][]int
	if adj, err = meshtools.ElementAdjacency(elements, numNodes); err != nil {
		return nil, err
	}
	K := len(elements)
	if int(cfg.NumPartitions) > K {
		return nil, fmt.Errorf("cannot split %d elements into %d parts", K, cfg.NumPartitions)
	}
	r = &Result{EToP: make([]int, K)}
	if cfg.NumPartitions > 1 {
		var part []int32
		if part, r.Objective, err = callMetis(adj, cfg); err != nil {
			return nil, err
		}
		for k, p := range part {
			r.EToP[k] = int(p)
		}
	}
	r.analyze(adj, int(cfg.NumPartitions))
	if cfg.Verbose {
		r.report()
	}
	return
}

// BlockPartition splits the elements into contiguous runs of nearly equal size, the layout used by a
// parallel loop over elements. It needs no graph library and serves as a baseline for the METIS cut.
func BlockPartition(elements [][]int, numNodes, nparts int) (r *Result, err error) {
	var adj [][]int
	if adj, err = meshtools.ElementAdjacency(elements, numNodes); err != nil {
		return nil, err
	}
	K := len(elements)
	if nparts < 1 || nparts > K {
		return nil, fmt.Errorf("cannot split %d elements into %d parts", K, nparts)
	}
	r = &Result{EToP: make([]int, K)}
	for np, bucket := range blockRanges(K, nparts) {
		for k := bucket[0]; k < bucket[1]; k++ {
			r.EToP[k] = np
		}
	}
	r.analyze(adj, nparts)
	return
}

// blockRanges splits 0..K into nparts half open ranges whose sizes differ by at most one, the larger ones first
func blockRanges(K, nparts int) (buckets [][2]int) {
	var (
		size      = K / nparts
		remainder = K % nparts
		start     int
	)
	buckets = make([][2]int, nparts)
	for np := range buckets {
		end := start + size
		if np < remainder {
			end++
		}
		buckets[np] = [2]int{start, end}
		start = end
	}
	return
}

// buildMetisGraph converts the dual graph to METIS form, weighting each shared side by one
func buildMetisGraph(adj [][]int, useEdgeWeights bool) (xadj, adjncy, adjwgt []int32) {
	xadj = make([]int32, len(adj)+1)
	for k, nbrs := range adj {
		for _, nbr := range nbrs {
			adjncy = append(adjncy, int32(nbr))
			if useEdgeWeights {
				adjwgt = append(adjwgt, 1)
			}
		}
		xadj[k+1] = int32(len(adjncy))
	}
	return
}

func callMetis(adj [][]int, cfg *Config) (part []int32, objval int32, err error) {
	xadj, adjncy, adjwgt := buildMetisGraph(adj, cfg.UseEdgeWeights)
	opts := make([]int32, metis.NoOptions)
	if err = metis.SetDefaultOptions(opts); err != nil {
		return nil, 0, fmt.Errorf("failed to set METIS options: %w", err)
	}
	if cfg.Objective == "vol" {
		opts[metis.OptionObjType] = metis.ObjTypeVol
	} else {
		opts[metis.OptionObjType] = metis.ObjTypeCut
	}
	ubvec := []float32{cfg.ImbalanceFactor}
	if part, objval, err = metis.PartGraphKwayWeighted(
		xadj, adjncy, nil, adjwgt,
		cfg.NumPartitions, nil, ubvec, opts,
	); err != nil {
		return nil, 0, fmt.Errorf("METIS partitioning failed: %w", err)
	}
	return
}

// analyze counts elements per part and the sides cut by the partition
func (r *Result) analyze(adj [][]int, nparts int) {
	r.Parts = make([]Stats, nparts)
	for i := range r.Parts {
		r.Parts[i].ID = i
		r.Parts[i].Neighbors = make(map[int]int)
	}
	for k, p := range r.EToP {
		r.Parts[p].NumElements++
		for _, nbr := range adj[k] {
			np := r.EToP[nbr]
			if np == p {
				continue
			}
			r.Parts[p].CutEdges++
			r.Parts[p].Neighbors[np]++
			if nbr > k {
				r.CutEdges++
			}
		}
	}
}

func (r *Result) report() {
	log.Printf("Partition Analysis:")
	log.Printf("  Objective value: %d", r.Objective)
	log.Printf("  Cut edges: %d", r.CutEdges)
	for _, stats := range r.Parts {
		log.Printf("  Partition %d: %d elements, %d cut sides, %d neighbors",
			stats.ID, stats.NumElements, stats.CutEdges, len(stats.Neighbors))
	}
}
