package rtm_test

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zitzeronion/RTMsim/config"
	"github.com/Zitzeronion/RTMsim/meshgen"
	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtm"
	"github.com/Zitzeronion/RTMsim/snapshot"
)

// writeNastranLike serializes a generated grid plus inlet/outlet
// triangle ids into the GRID/CTRIA3/SET text format package meshio
// reads, so rtm.Run can be exercised end to end from a file path the
// same way a real invocation would.
func writeNastranLike(t *testing.T, nodes []mesh.NodeInput, tris []mesh.TriangleInput, inlet, outlet []int) string {
	t.Helper()
	var b strings.Builder
	for _, n := range nodes {
		fmt.Fprintf(&b, "GRID %d %g %g %g\n", n.ExternalID, n.X, n.Y, n.Z)
	}
	for _, tr := range tris {
		fmt.Fprintf(&b, "CTRIA3 %d %d %d %d\n", tr.ExternalID, tr.NodeExternalIDs[0], tr.NodeExternalIDs[1], tr.NodeExternalIDs[2])
	}
	fmt.Fprintf(&b, "SET inlet")
	for _, id := range inlet {
		fmt.Fprintf(&b, " %d", id)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "SET outlet")
	for _, id := range outlet {
		fmt.Fprintf(&b, " %d", id)
	}
	b.WriteString("\n")

	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.dat")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testParams(t *testing.T, meshPath, snapshotDir string) *config.Params {
	t.Helper()
	p := &config.Params{
		MeshSource: meshPath,
		TMax:       0.02,
		PRef:       1e5,
		RhoRef:     1000,
		GammaEoS:   1.4,
		Mu:         0.06,
		PA:         1.35e5,
		PInit:      1e5,
		DefaultProps: config.PropsConfig{
			Thickness: 3e-3, Porosity: 0.7, K1: 3e-10, K2: 3e-10,
			PrincipalDir: [3]float64{1, 0, 0}, Viscosity: 0.06,
		},
		ReferenceDir:     [3]float64{1, 0, 0},
		NPics:            4,
		SnapshotInterval: 0.01,
	}
	require.NoError(t, p.Validate())
	return p
}

func smallMesh(t *testing.T) (string, []int, []int) {
	t.Helper()
	nodes, tris := meshgen.Square(0.1, 4, 4)
	inlet := []int{tris[0].ExternalID}
	outlet := []int{tris[len(tris)-1].ExternalID}
	path := writeNastranLike(t, nodes, tris, inlet, outlet)
	return path, inlet, outlet
}

func TestRunProducesSnapshotsWithinPhysicalBounds(t *testing.T) {
	meshPath, _, _ := smallMesh(t)
	snapDir := t.TempDir()
	p := testParams(t, meshPath, snapDir)

	var nSnaps int
	err := rtm.Run(p, snapDir, func(snap *snapshot.Snapshot) {
		nSnaps++
		for i := 0; i < snap.N; i++ {
			assert.GreaterOrEqual(t, snap.Gamma[i], 0.0)
			assert.LessOrEqual(t, snap.Gamma[i], 1.0)
			assert.GreaterOrEqual(t, snap.Rho[i], 0.0)
			assert.True(t, !math.IsNaN(snap.P[i]) && !math.IsInf(snap.P[i], 0))
		}
	})
	require.NoError(t, err)
	assert.Greater(t, nSnaps, 0)

	canonical, err := snapshot.ReadCanonical(snapDir)
	require.NoError(t, err)
	assert.Greater(t, canonical.T, p.TMax-p.SnapshotInterval)
}

func TestRestartContinuesFromLatestSnapshot(t *testing.T) {
	meshPath, _, _ := smallMesh(t)
	snapDir := t.TempDir()
	p := testParams(t, meshPath, snapDir)
	require.NoError(t, rtm.Run(p, snapDir, nil))

	first, err := snapshot.ReadCanonical(snapDir)
	require.NoError(t, err)

	p2 := testParams(t, meshPath, snapDir)
	p2.TMax = first.T + 0.01
	p2.Restart = true
	p2.SnapshotID = "latest"
	require.NoError(t, p2.Validate())
	require.NoError(t, rtm.Run(p2, snapDir, nil))

	second, err := snapshot.ReadCanonical(snapDir)
	require.NoError(t, err)
	assert.Greater(t, second.T, first.T)
	assert.Greater(t, second.NOut, first.NOut)
}

func TestRunRejectsUnknownMeshSource(t *testing.T) {
	snapDir := t.TempDir()
	p := testParams(t, filepath.Join(snapDir, "does-not-exist.dat"), snapDir)
	err := rtm.Run(p, snapDir, nil)
	require.Error(t, err)
}
