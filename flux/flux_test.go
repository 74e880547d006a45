package flux_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zitzeronion/RTMsim/flux"
	"github.com/Zitzeronion/RTMsim/geom"
	"github.com/Zitzeronion/RTMsim/material"
	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/types"
	"github.com/Zitzeronion/RTMsim/utils"
)

func buildTwoCellMesh(t *testing.T, patches []mesh.PatchInput) *mesh.Mesh {
	t.Helper()
	nodes := []mesh.NodeInput{
		{ExternalID: 0, X: 0, Y: 0, Z: 0},
		{ExternalID: 1, X: 1, Y: 0, Z: 0},
		{ExternalID: 2, X: 1, Y: 1, Z: 0},
		{ExternalID: 3, X: 0, Y: 1, Z: 0},
	}
	tris := []mesh.TriangleInput{
		{ExternalID: 0, NodeExternalIDs: [3]int{0, 1, 2}},
		{ExternalID: 1, NodeExternalIDs: [3]int{0, 2, 3}},
	}
	m, err := mesh.Build(nodes, tris, patches)
	require.NoError(t, err)
	require.NoError(t, geom.BuildFrames(m, utils.NewVec3(1, 0, 0)))
	require.NoError(t, geom.BuildNeighborGeometry(m))
	props := mesh.Properties{
		Thickness: 1, Porosity: 0.7, K1: 1e-10, K2: 1e-10,
		PrincipalDir: utils.NewVec3(1, 0, 0), Viscosity: 0.06,
	}
	require.NoError(t, material.Assign(m, props, utils.NewVec3(1, 0, 0)))
	return m
}

func TestInteriorFaceZeroWithEqualState(t *testing.T) {
	m := buildTwoCellMesh(t, nil)
	state := make([]types.State, len(m.Cells))
	for i := range state {
		state[i] = types.State{Rho: 1000, U: 0, V: 0, P: 0, Gamma: 0}
	}
	grad := make([]utils.Vec2, len(m.Cells))
	acc := flux.AtCell(m, 0, state, grad)
	assert.Equal(t, flux.Accum{}, acc)
}

func TestInteriorFaceMassFluxNonzeroWithVelocityAcrossFace(t *testing.T) {
	m := buildTwoCellMesh(t, nil)
	state := make([]types.State, len(m.Cells))
	state[0] = types.State{Rho: 1000, U: 1, V: 0, P: 100, Gamma: 0.5}
	state[1] = types.State{Rho: 1000, U: 0, V: 0, P: 50, Gamma: 0}
	grad := make([]utils.Vec2, len(m.Cells))
	acc := flux.AtCell(m, 0, state, grad)
	// Cell 0's local velocity (1,0) has a nonzero component along the
	// shared face's normal (-1,1)/sqrt(2); the mass flux should be nonzero.
	assert.NotEqual(t, 0.0, acc.FRho)
}

func TestBoundaryFaceOutletUsesOwnerVelocity(t *testing.T) {
	patches := []mesh.PatchInput{{Type: types.PatchOutlet, ExternalTriangleIDs: []int{1}}}
	m := buildTwoCellMesh(t, patches)
	require.Equal(t, types.PressureOutlet, m.Cells[1].Class)

	state := make([]types.State, len(m.Cells))
	state[0] = types.State{Rho: 1000, U: 1, V: 0, P: 100, Gamma: 1}
	state[1] = types.State{Rho: 998, U: 0, V: 0, P: 90, Gamma: 0}
	grad := make([]utils.Vec2, len(m.Cells))

	acc := flux.AtCell(m, 0, state, grad)
	assert.NotEqual(t, 0.0, acc.FRho)
}

func TestBoundaryFaceInletNoBackflow(t *testing.T) {
	patches := []mesh.PatchInput{{Type: types.PatchInlet, ExternalTriangleIDs: []int{1}}}
	m := buildTwoCellMesh(t, patches)
	require.Equal(t, types.PressureInlet, m.Cells[1].Class)

	state := make([]types.State, len(m.Cells))
	state[0] = types.State{Rho: 1000, U: 0, V: 0, P: 50, Gamma: 0}
	state[1] = types.State{Rho: 1050, U: 0, V: 0, P: 100, Gamma: 1}
	grad := make([]utils.Vec2, len(m.Cells))
	// A gradient pointing from the owner toward the inlet, i.e. the
	// inlet is at higher pressure: Darcy's law should push flow into
	// the owner, not out of it.
	grad[0] = utils.Vec2{X: -50, Y: 0}

	acc := flux.AtCell(m, 0, state, grad)
	// Inflow carries the inlet's gamma=1 into the owner's volume flux
	// sum; the transported term should be nonpositive since FVol<0.
	if acc.FVol < 0 {
		assert.LessOrEqual(t, acc.FGamma, 0.0)
	}
}
