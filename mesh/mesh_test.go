package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/types"
)

// twoTriangleSquare builds the smallest interesting mesh: a unit square
// split into two triangles sharing one interior edge and four boundary
// edges, so each cell has exactly one neighbor and two wall edges.
func twoTriangleSquare() ([]mesh.NodeInput, []mesh.TriangleInput) {
	nodes := []mesh.NodeInput{
		{ExternalID: 1, X: 0, Y: 0, Z: 0},
		{ExternalID: 2, X: 1, Y: 0, Z: 0},
		{ExternalID: 3, X: 1, Y: 1, Z: 0},
		{ExternalID: 4, X: 0, Y: 1, Z: 0},
	}
	tris := []mesh.TriangleInput{
		{ExternalID: 1, NodeExternalIDs: [3]int{1, 2, 3}},
		{ExternalID: 2, NodeExternalIDs: [3]int{1, 3, 4}},
	}
	return nodes, tris
}

func TestBuildClassifiesSharedEdgeAsNeighborAndRestAsWall(t *testing.T) {
	nodes, tris := twoTriangleSquare()
	m, err := mesh.Build(nodes, tris, nil)
	require.NoError(t, err)
	require.Len(t, m.Cells, 2)

	for ci := range m.Cells {
		assert.Equal(t, types.Wall, m.Cells[ci].Class, "a triangle with two boundary edges is a wall cell")
		assert.Len(t, m.NeighborsOf(ci), 1)
	}
}

func TestBuildNeighborshipIsSymmetric(t *testing.T) {
	nodes, tris := twoTriangleSquare()
	m, err := mesh.Build(nodes, tris, nil)
	require.NoError(t, err)

	for ci := range m.Cells {
		for _, nb := range m.NeighborsOf(ci) {
			found := false
			for _, back := range m.NeighborsOf(nb.CellID) {
				if back.CellID == ci {
					found = true
				}
			}
			assert.True(t, found, "cell %d lists %d as a neighbor but not vice versa", ci, nb.CellID)
		}
	}
}

func TestBuildCanonicalizesNodeOrderAscendingByExternalID(t *testing.T) {
	nodes, _ := twoTriangleSquare()
	tris := []mesh.TriangleInput{
		{ExternalID: 1, NodeExternalIDs: [3]int{3, 1, 2}},
		{ExternalID: 2, NodeExternalIDs: [3]int{1, 3, 4}},
	}
	m, err := mesh.Build(nodes, tris, nil)
	require.NoError(t, err)

	ext := func(di int) int { return m.Nodes[di].ExternalID }
	c := m.Cells[0]
	assert.True(t, ext(c.Nodes[0]) < ext(c.Nodes[1]) && ext(c.Nodes[1]) < ext(c.Nodes[2]))
}

func TestBuildRejectsDegenerateTriangle(t *testing.T) {
	nodes := []mesh.NodeInput{
		{ExternalID: 1, X: 0, Y: 0, Z: 0},
		{ExternalID: 2, X: 1, Y: 0, Z: 0},
		{ExternalID: 3, X: 2, Y: 0, Z: 0}, // collinear with 1,2
	}
	tris := []mesh.TriangleInput{{ExternalID: 1, NodeExternalIDs: [3]int{1, 2, 3}}}
	_, err := mesh.Build(nodes, tris, nil)
	require.Error(t, err)
}

func TestBuildRejectsEdgeSharedByThreeTriangles(t *testing.T) {
	nodes := []mesh.NodeInput{
		{ExternalID: 1, X: 0, Y: 0, Z: 0},
		{ExternalID: 2, X: 1, Y: 0, Z: 0},
		{ExternalID: 3, X: 0, Y: 1, Z: 0},
		{ExternalID: 4, X: -1, Y: -1, Z: 0},
		{ExternalID: 5, X: 2, Y: 2, Z: 0},
	}
	tris := []mesh.TriangleInput{
		{ExternalID: 1, NodeExternalIDs: [3]int{1, 2, 3}},
		{ExternalID: 2, NodeExternalIDs: [3]int{1, 2, 4}},
		{ExternalID: 3, NodeExternalIDs: [3]int{1, 2, 5}},
	}
	_, err := mesh.Build(nodes, tris, nil)
	require.Error(t, err)
}

func TestBuildRejectsDuplicateTriangle(t *testing.T) {
	nodes, _ := twoTriangleSquare()
	tris := []mesh.TriangleInput{
		{ExternalID: 1, NodeExternalIDs: [3]int{1, 2, 3}},
		{ExternalID: 2, NodeExternalIDs: [3]int{1, 2, 3}},
	}
	_, err := mesh.Build(nodes, tris, nil)
	require.Error(t, err)
}

func TestBuildResolvesPatchTriangleIDsToDenseCellIndices(t *testing.T) {
	nodes, tris := twoTriangleSquare()
	patches := []mesh.PatchInput{
		{Type: types.PatchInlet, ExternalTriangleIDs: []int{2}},
	}
	m, err := mesh.Build(nodes, tris, patches)
	require.NoError(t, err)
	require.Len(t, m.Patches, 1)
	assert.Equal(t, []int{1}, m.Patches[0].CellIDs) // triangle 2 is dense index 1
}

func TestAdjacencyMatrixIsSymmetricForAWellFormedMesh(t *testing.T) {
	nodes, tris := twoTriangleSquare()
	m, err := mesh.Build(nodes, tris, nil)
	require.NoError(t, err)

	a := m.AdjacencyMatrix()
	assert.True(t, mesh.IsSymmetric(a))
}
