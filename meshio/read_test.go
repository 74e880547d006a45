package meshio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zitzeronion/RTMsim/meshio"
)

func TestReadDispatchesByExtension(t *testing.T) {
	su2 := `NPOIN=3
0.0 0.0 0.0 1
1.0 0.0 0.0 2
1.0 1.0 0.0 3
NELEM=1
5 1 2 3 1
NMARK=0
`
	nodes, tris, _, err := meshio.Read("case.su2", strings.NewReader(su2))
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
	assert.Len(t, tris, 1)

	nastran := `
GRID 1 0.0 0.0 0.0
GRID 2 1.0 0.0 0.0
GRID 3 1.0 1.0 0.0
CTRIA3 1 1 2 3
`
	nodes, tris, _, err = meshio.Read("case.dat", strings.NewReader(nastran))
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
	assert.Len(t, tris, 1)
}
