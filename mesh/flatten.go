package mesh

/*
FlattenNodes returns a copy of the node array, dropping the third coordinate when every node has the
same value there. Planar meshes written with a constant z come back two dimensional; two column input
and meshes with a varying third coordinate keep their width. The input is not modified.
*/
func FlattenNodes(nodes [][]float64) (flat [][]float64, flattened bool) {
	flattened = len(nodes) != 0
	for _, row := range nodes {
		if len(row) != 3 || row[2] != nodes[0][2] {
			flattened = false
			break
		}
	}
	flat = make([][]float64, len(nodes))
	for i, row := range nodes {
		if flattened {
			flat[i] = []float64{row[0], row[1]}
		} else {
			flat[i] = append([]float64(nil), row...)
		}
	}
	return
}
