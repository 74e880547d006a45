package gradient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zitzeronion/RTMsim/gradient"
	"github.com/Zitzeronion/RTMsim/utils"
)

func TestAtCellRecoversLinearField(t *testing.T) {
	// p(x,y) = 2x + 3y; gradient must recover (2,3) exactly for any set
	// of at least two non-collinear neighbor offsets with p sampled from
	// this field.
	grad := func(x, y float64) float64 { return 2*x + 3*y }
	neighbors := []gradient.NeighborDelta{
		{Delta: utils.Vec2{X: 1, Y: 0}, NeighP: grad(1, 0)},
		{Delta: utils.Vec2{X: 0, Y: 1}, NeighP: grad(0, 1)},
		{Delta: utils.Vec2{X: -1, Y: -1}, NeighP: grad(-1, -1)},
	}
	g := gradient.AtCell(grad(0, 0), neighbors)
	assert.InDelta(t, 2.0, g.X, 1e-10)
	assert.InDelta(t, 3.0, g.Y, 1e-10)
}

func TestAtCellFewerThanTwoNeighborsIsZero(t *testing.T) {
	g := gradient.AtCell(100, []gradient.NeighborDelta{{Delta: utils.Vec2{X: 1, Y: 0}, NeighP: 150}})
	assert.Equal(t, utils.Vec2{}, g)
}

func TestAtCellDegenerateNormalMatrixIsZero(t *testing.T) {
	// Two collinear neighbor deltas make AtA singular.
	neighbors := []gradient.NeighborDelta{
		{Delta: utils.Vec2{X: 1, Y: 0}, NeighP: 10},
		{Delta: utils.Vec2{X: 2, Y: 0}, NeighP: 20},
	}
	g := gradient.AtCell(0, neighbors)
	assert.Equal(t, utils.Vec2{}, g)
}
