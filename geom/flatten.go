package geom

import (
	"math"

	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/utils"
)

// BuildNeighborGeometry computes the flattened-neighbor geometry: for
// every neighbor relationship, unfold the neighbor triangle into the
// owner's plane by reflecting it across their shared
// edge, then derive the in-plane face normal, the flattened
// owner-to-neighbor center vector, the true edge length, and the 2x2
// rotation T that carries a velocity expressed in the neighbor's local
// frame into the owner's.
//
// BuildFrames must have run first; this reads each cell's Frame, Center,
// and Planar fields.
func BuildNeighborGeometry(m *mesh.Mesh) error {
	for ci := range m.Cells {
		owner := &m.Cells[ci]
		nbs := m.NeighborsOf(ci)
		for k := range nbs {
			nb := &nbs[k]
			other := &m.Cells[nb.CellID]

			ia, ib := localIndex(owner, nb.EdgeNodes[0]), localIndex(owner, nb.EdgeNodes[1])
			if ia < 0 || ib < 0 {
				return rtmerr.New(rtmerr.MeshDegenerate, "triangles",
					"cell %d's shared edge is not one of its own edges", owner.ExternalID)
			}
			A, B := owner.Planar[ia], owner.Planar[ib]
			ab := B.Sub(A)
			abLenSq := ab.Dot(ab)
			if abLenSq < utils.Tol {
				return rtmerr.New(rtmerr.MeshDegenerate, "triangles",
					"cell %d has a zero-length shared edge", owner.ExternalID)
			}

			nb.EdgeLength = m.Nodes[nb.EdgeNodes[0]].Pos.Sub(m.Nodes[nb.EdgeNodes[1]].Pos).Norm()

			// Foot of perpendicular from the owner's own center (the
			// origin of its local frame) onto the shared edge line, and
			// the owner's own unit perpendicular direction toward it.
			t0 := -A.Dot(ab) / abLenSq
			Q0 := A.Add(ab.Scale(t0))
			l1 := Q0.Norm()
			if l1 < utils.Tol {
				return rtmerr.New(rtmerr.MeshDegenerate, "triangles",
					"cell %d's center lies on its shared edge", owner.ExternalID)
			}
			dirPerp := Q0.Scale(1 / l1)

			flatten := func(p3 utils.Vec3) utils.Vec2 {
				d := p3.Sub(owner.Center)
				p2d := utils.Vec2{X: d.Dot(owner.Frame.B1), Y: d.Dot(owner.Frame.B2)}
				t := p2d.Sub(A).Dot(ab) / abLenSq
				Q := A.Add(ab.Scale(t))
				l2 := p2d.Sub(Q).Norm()
				return Q.Add(dirPerp.Scale(l2))
			}

			nb.Normal = dirPerp
			nb.Delta = flatten(other.Center)

			// Flattened neighbor frame: flatten the neighbor's own three
			// vertices into the owner's plane, rebuild the same
			// orthonormal-basis-plus-theta construction as BuildFrames,
			// then express the rotated basis vectors in the owner's 2-D
			// coordinates. T's columns are the images of the neighbor's
			// local axes.
			var flatV [3]utils.Vec2
			for j, nid := range other.Nodes {
				flatV[j] = flatten(m.Nodes[nid].Pos)
			}
			fb1 := flatV[1].Sub(flatV[0])
			fb1n := fb1.Normalize()
			fb2raw := flatV[2].Sub(flatV[0])
			fb2proj := fb2raw.Sub(fb1n.Scale(fb1n.Dot(fb2raw)))
			if fb2proj.Norm() < utils.Tol {
				return rtmerr.New(rtmerr.MeshDegenerate, "triangles",
					"cell %d's flattened neighbor image is degenerate", owner.ExternalID)
			}
			fb2n := fb2proj.Normalize()

			cosT, sinT := math.Cos(other.Frame.Theta), math.Sin(other.Frame.Theta)
			rb1 := fb1n.Scale(cosT).Add(fb2n.Scale(sinT))
			rb2 := fb1n.Scale(-sinT).Add(fb2n.Scale(cosT))

			nb.Rotation = utils.Mat2{
				M00: rb1.X, M01: rb2.X,
				M10: rb1.Y, M11: rb2.Y,
			}
		}
	}
	return nil
}

func localIndex(c *mesh.Cell, denseNode int) int {
	for i, n := range c.Nodes {
		if n == denseNode {
			return i
		}
	}
	return -1
}
