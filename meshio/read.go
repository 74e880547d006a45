package meshio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
)

// ReadFile dispatches to ReadSU2Like or ReadNastranLike by the mesh
// source's extension: one reader per grid dialect, rather than
// auto-sniffing content.
func ReadFile(path string) ([]mesh.NodeInput, []mesh.TriangleInput, []mesh.PatchInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, rtmerr.Wrap(rtmerr.MeshMissing, "mesh_source", err, "cannot open mesh file %q", path)
	}
	defer f.Close()
	return Read(path, f)
}

// Read parses r using the reader selected by name's extension: ".su2"
// selects ReadSU2Like, anything else (including the legacy ".dat"/".bdf"
// extensions) selects ReadNastranLike.
func Read(name string, r io.Reader) ([]mesh.NodeInput, []mesh.TriangleInput, []mesh.PatchInput, error) {
	if strings.EqualFold(filepath.Ext(name), ".su2") {
		return ReadSU2Like(r)
	}
	return ReadNastranLike(r)
}
