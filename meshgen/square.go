// Package meshgen builds test meshes directly as mesh.NodeInput/
// TriangleInput/PatchInput triples, sidestepping meshio for the common
// case of a structured planar domain.
//
// A rectangular grid of nodes split two triangles per quad, node
// numbering i + j*(nx+1) + 1. pradeep-pyro/triangle is
// deliberately not used here; see DESIGN.md.
package meshgen

import (
	"math"

	"github.com/Zitzeronion/RTMsim/mesh"
)

// Square builds an nx-by-ny grid of side/nx-by-side/ny quads, each split into two
// triangles, covering [0,side]x[0,side] in the z=0 plane. External ids
// are 1-based and dense.
func Square(side float64, nx, ny int) ([]mesh.NodeInput, []mesh.TriangleInput) {
	dx := side / float64(nx)
	dy := side / float64(ny)

	nodeID := func(i, j int) int { return i + j*(nx+1) + 1 }

	nodes := make([]mesh.NodeInput, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			nodes = append(nodes, mesh.NodeInput{
				ExternalID: nodeID(i, j),
				X:          float64(i) * dx,
				Y:          float64(j) * dy,
				Z:          0,
			})
		}
	}

	var tris []mesh.TriangleInput
	eid := 1
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			n1 := nodeID(i, j)
			n2 := nodeID(i+1, j)
			n3 := nodeID(i, j+1)
			n4 := nodeID(i+1, j+1)
			tris = append(tris,
				mesh.TriangleInput{ExternalID: eid, NodeExternalIDs: [3]int{n1, n2, n3}},
				mesh.TriangleInput{ExternalID: eid + 1, NodeExternalIDs: [3]int{n3, n4, n2}},
			)
			eid += 2
		}
	}
	return nodes, tris
}

// DiscPatch returns the external triangle ids of Square(side,nx,ny)
// whose centroid lies within radius of the grid's center, the structured
// analog of the central-disc inlet patch in S1/S2.
func DiscPatch(side float64, nx, ny int, radius float64) []int {
	nodes, tris := Square(side, nx, ny)
	pos := make(map[int][2]float64, len(nodes))
	for _, n := range nodes {
		pos[n.ExternalID] = [2]float64{n.X, n.Y}
	}
	cx, cy := side/2, side/2

	var ids []int
	for _, tr := range tris {
		var cxT, cyT float64
		for _, nid := range tr.NodeExternalIDs {
			p := pos[nid]
			cxT += p[0] / 3
			cyT += p[1] / 3
		}
		if math.Hypot(cxT-cx, cyT-cy) <= radius {
			ids = append(ids, tr.ExternalID)
		}
	}
	return ids
}
