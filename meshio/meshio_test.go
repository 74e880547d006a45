package meshio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zitzeronion/RTMsim/meshio"
)

func TestReadNastranLikeParsesGridCtria3Set(t *testing.T) {
	src := `
$ comment line
GRID 1 0.0 0.0 0.0
GRID 2 1.0 0.0 0.0
GRID 3 1.0 1.0 0.0
GRID 4 0.0 1.0 0.0
CTRIA3 1 1 2 3
CTRIA3 2 1 3 4
SET inlet 1
`
	nodes, tris, patches, err := meshio.ReadNastranLike(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, nodes, 4)
	assert.Len(t, tris, 2)
	require.Len(t, patches, 1)
	assert.Equal(t, []int{1}, patches[0].ExternalTriangleIDs)
}

func TestReadNastranLikeRejectsUnknownKeyword(t *testing.T) {
	_, _, _, err := meshio.ReadNastranLike(strings.NewReader("BOGUS 1 2 3\n"))
	require.Error(t, err)
}

func TestReadSU2LikeParsesPointsElementsMarkers(t *testing.T) {
	src := `NPOIN=4
0.0 0.0 0.0 1
1.0 0.0 0.0 2
1.0 1.0 0.0 3
0.0 1.0 0.0 4
NELEM=2
5 1 2 3 1
5 1 3 4 2
NMARK=1
MARKER_TAG=outlet
MARKER_ELEMS=1
2
`
	nodes, tris, patches, err := meshio.ReadSU2Like(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, nodes, 4)
	assert.Len(t, tris, 2)
	require.Len(t, patches, 1)
	assert.Equal(t, []int{2}, patches[0].ExternalTriangleIDs)
}

func TestReadSU2LikeRejectsNonTriangleElement(t *testing.T) {
	src := `NPOIN=0
NELEM=1
9 1 2 3 4 1
`
	_, _, _, err := meshio.ReadSU2Like(strings.NewReader(src))
	require.Error(t, err)
}
