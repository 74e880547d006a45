// Package gradient computes the per-cell least-squares pressure
// gradient used by the flux kernels each step.
//
// Specialized to the fixed 2x2 normal-equation system this reconstruction
// needs; no general linear solve is required, so no gonum/mat dependency
// is pulled in for this one operator.
package gradient

import "github.com/Zitzeronion/RTMsim/utils"

// NeighborDelta is the minimal view gradient.AtCell needs of a cell's
// neighbor: the flattened center-to-center vector and the neighbor's
// pressure.
type NeighborDelta struct {
	Delta   utils.Vec2
	NeighP  float64
}

// AtCell solves the 2x2 normal-equation least-squares system for one
// cell: rows of A are the flattened owner-to-neighbor vectors, b's
// entries are the neighbor-minus-owner pressure differences. Fewer than
// two neighbors, or a singular normal matrix, yields the zero gradient.
func AtCell(ownP float64, neighbors []NeighborDelta) utils.Vec2 {
	if len(neighbors) < 2 {
		return utils.Vec2{}
	}
	var ata utils.Mat2
	var atb utils.Vec2
	for _, n := range neighbors {
		v := n.Delta
		ata.M00 += v.X * v.X
		ata.M01 += v.X * v.Y
		ata.M10 += v.X * v.Y
		ata.M11 += v.Y * v.Y
		db := n.NeighP - ownP
		atb.X += v.X * db
		atb.Y += v.Y * db
	}
	inv, ok := ata.Inverse()
	if !ok {
		return utils.Vec2{}
	}
	return inv.Apply(atb)
}
