package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zitzeronion/RTMsim/geom"
	"github.com/Zitzeronion/RTMsim/material"
	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/solver"
	"github.com/Zitzeronion/RTMsim/types"
	"github.com/Zitzeronion/RTMsim/utils"
)

func buildClosedMesh(t *testing.T) *mesh.Mesh {
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
	m, err := mesh.Build(nodes, tris, nil)
	require.NoError(t, err)
	require.NoError(t, geom.BuildFrames(m, utils.NewVec3(1, 0, 0)))
	require.NoError(t, geom.BuildNeighborGeometry(m))
	props := mesh.Properties{
		Thickness: 3e-3, Porosity: 0.7, K1: 3e-10, K2: 3e-10,
		PrincipalDir: utils.NewVec3(1, 0, 0), Viscosity: 0.06,
	}
	require.NoError(t, material.Assign(m, props, utils.NewVec3(1, 0, 0)))
	return m
}

func TestWallOnlyMeshConservesMass(t *testing.T) {
	m := buildClosedMesh(t)
	for _, c := range m.Cells {
		assert.Equal(t, types.Wall, c.Class)
	}

	eos := solver.NewEoS(types.WeaklyCompressible, 100, 1000, 1.4)
	initial := make([]types.State, len(m.Cells))
	for i := range initial {
		initial[i] = types.State{Rho: 1000, U: 0, V: 0, P: 100, Gamma: 0.3}
	}
	s := solver.New(m, eos, solver.BoundaryPins{}, 200, 4, false, initial)

	totalBefore := 0.0
	for ci, c := range m.Cells {
		totalBefore += s.State[ci].Rho * c.Volume
	}

	for i := 0; i < 50; i++ {
		require.NoError(t, s.Step())
	}

	totalAfter := 0.0
	for ci, c := range m.Cells {
		totalAfter += s.State[ci].Rho * c.Volume
	}
	assert.InDelta(t, totalBefore, totalAfter, 1e-6*totalBefore)
}

func TestStateStaysInPhysicalBounds(t *testing.T) {
	m := buildClosedMesh(t)
	eos := solver.NewEoS(types.WeaklyCompressible, 100, 1000, 1.4)
	initial := make([]types.State, len(m.Cells))
	for i := range initial {
		initial[i] = types.State{Rho: 1000, U: 0, V: 0, P: 100, Gamma: 0.5}
	}
	s := solver.New(m, eos, solver.BoundaryPins{}, 200, 4, false, initial)

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Step())
		for _, st := range s.State {
			assert.GreaterOrEqual(t, st.Gamma, 0.0)
			assert.LessOrEqual(t, st.Gamma, 1.0)
			assert.GreaterOrEqual(t, st.Rho, 0.0)
			assert.GreaterOrEqual(t, st.P, 0.0)
		}
	}
}

func TestWeaklyCompressibleEoSMonotonic(t *testing.T) {
	eos := solver.NewEoS(types.WeaklyCompressible, 100, 1000, 1.4)
	p1 := eos.Pressure(999)
	p2 := eos.Pressure(1000)
	p3 := eos.Pressure(1001)
	assert.Less(t, p1, p2)
	assert.Less(t, p2, p3)
}

func TestQuasiIncompressibleEoSHasMinimumAtReference(t *testing.T) {
	eos := solver.NewEoS(types.QuasiIncompressible, 100, 1000, 150)
	pRef := eos.Pressure(1000)
	pBelow := eos.Pressure(999)
	pAbove := eos.Pressure(1001)
	assert.InDelta(t, 100.0, pRef, 1e-9)
	assert.GreaterOrEqual(t, pBelow, pRef)
	assert.GreaterOrEqual(t, pAbove, pRef)
}
