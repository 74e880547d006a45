package mesh

import (
	"github.com/james-bowman/sparse"
)

// AdjacencyMatrix builds a symmetric boolean adjacency matrix over the
// mesh's cells, one nonzero per directed neighbor relationship. It backs
// the "mesh-check" diagnostic's symmetry-of-neighborship property: a
// well-formed mesh produces a matrix equal to its own transpose.
//
// Built as a DOK then converted to CSR for cheap row scans.
func (m *Mesh) AdjacencyMatrix() *sparse.CSR {
	n := len(m.Cells)
	dok := sparse.NewDOK(n, n)
	for ci := range m.Cells {
		for _, nb := range m.NeighborsOf(ci) {
			dok.Set(ci, nb.CellID, 1)
		}
	}
	return dok.ToCSR()
}

// IsSymmetric reports whether the adjacency matrix equals its transpose,
// i.e. every neighbor relationship is mutual.
func IsSymmetric(a *sparse.CSR) bool {
	r, c := a.Dims()
	if r != c {
		return false
	}
	symmetric := true
	for i := 0; i < r; i++ {
		a.DoRowNonZero(i, func(i, j int, v float64) {
			if a.At(j, i) != v {
				symmetric = false
			}
		})
	}
	return symmetric
}
