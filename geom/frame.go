// Package geom builds the per-cell orthonormal local frame, the
// flattened neighbor-geometry construction that lets a 2-D finite-area
// scheme run on a non-planar shell, and the accompanying velocity
// rotation. It operates in place on a *mesh.Mesh built by package mesh.
//
// The local-frame construction follows a plain Point/basis-vector idiom;
// an in-plane face normal is the unit vector from the owner's center to
// the foot of its perpendicular on the shared edge.
package geom

import (
	"math"

	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/utils"
)

// BuildFrames computes the per-cell local-frame construction: for
// each cell, an orthonormal basis (b1,b2,b3) derived from its own three
// vertices, rotated about b3 so b1 aligns with the projection of refDir
// onto the cell's plane. It also fills in each cell's planar vertex
// coordinates and its thickness-independent area.
//
// refDir need not be tangent to any particular cell; only its projection
// onto each cell's plane matters. A refDir that is (near) normal to a
// cell's plane everywhere it matters would leave theta undefined; callers
// pick a refDir that is not normal to the preform surface.
func BuildFrames(m *mesh.Mesh, refDir utils.Vec3) error {
	for ci := range m.Cells {
		c := &m.Cells[ci]
		p0 := m.Nodes[c.Nodes[0]].Pos
		p1 := m.Nodes[c.Nodes[1]].Pos
		p2 := m.Nodes[c.Nodes[2]].Pos

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)
		cr := e1.Cross(e2)
		area := 0.5 * cr.Norm()
		if area < utils.Tol {
			return rtmerr.New(rtmerr.MeshDegenerate, "triangles",
				"cell %d has zero area at frame construction", c.ExternalID)
		}
		c.Area = area

		b1 := e1.Normalize()
		proj := e2.Sub(b1.Scale(b1.Dot(e2)))
		if proj.Norm() < utils.Tol {
			return rtmerr.New(rtmerr.MeshDegenerate, "triangles",
				"cell %d has collinear nodes", c.ExternalID)
		}
		b2 := proj.Normalize()
		b3 := b1.Cross(b2)

		rx := refDir.Dot(b1)
		ry := refDir.Dot(b2)
		if math.Hypot(rx, ry) < utils.Tol {
			return rtmerr.New(rtmerr.ConfigInvalid, "reference_direction",
				"reference direction is normal to cell %d's plane", c.ExternalID)
		}
		theta := math.Atan2(ry, rx)
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		rb1 := b1.Scale(cosT).Add(b2.Scale(sinT))
		rb2 := b1.Scale(-sinT).Add(b2.Scale(cosT))

		c.Frame = mesh.Frame{B1: rb1, B2: rb2, B3: b3, Theta: theta}

		for k, p := range [3]utils.Vec3{p0, p1, p2} {
			d := p.Sub(c.Center)
			c.Planar[k] = utils.Vec2{X: d.Dot(rb1), Y: d.Dot(rb2)}
		}
	}
	return nil
}
