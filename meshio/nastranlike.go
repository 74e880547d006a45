// Package meshio implements the mesh readers: the legacy triangular
// shell format (GRID/CTRIA3/SET keywords, read as whitespace-delimited
// fields rather than fixed columns) in nastranlike.go, and an alternate
// SU2-like reader in su2like.go for meshes exported from other tools.
//
// Both use a line-oriented bufio.Scanner plus keyword dispatch, returning
// *rtmerr.Error instead of panicking, matching the rest of this module's
// error handling.
package meshio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/types"
)

// ReadNastranLike parses the legacy keyword format:
// one record per line, the first whitespace-delimited field a keyword.
//
//	GRID   <id> <x> <y> <z>
//	CTRIA3 <id> <n1> <n2> <n3>
//	SET    <type> <id...>
//
// SET's <type> is one of the patch type names in types.PatchTypeNameMap;
// the remaining fields are the external triangle ids in that patch.
func ReadNastranLike(r io.Reader) ([]mesh.NodeInput, []mesh.TriangleInput, []mesh.PatchInput, error) {
	var nodes []mesh.NodeInput
	var tris []mesh.TriangleInput
	var patches []mesh.PatchInput

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "$") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "GRID":
			n, err := parseGrid(fields, lineNo)
			if err != nil {
				return nil, nil, nil, err
			}
			nodes = append(nodes, n)
		case "CTRIA3":
			tr, err := parseCTria3(fields, lineNo)
			if err != nil {
				return nil, nil, nil, err
			}
			tris = append(tris, tr)
		case "SET":
			p, err := parseSet(fields, lineNo)
			if err != nil {
				return nil, nil, nil, err
			}
			patches = append(patches, p)
		default:
			return nil, nil, nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh",
				"line %d: unknown keyword %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, rtmerr.Wrap(rtmerr.MeshMissing, "mesh", err, "failed reading mesh")
	}
	return nodes, tris, patches, nil
}

func parseGrid(fields []string, lineNo int) (mesh.NodeInput, error) {
	if len(fields) != 5 {
		return mesh.NodeInput{}, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "line %d: GRID wants 4 fields, got %d", lineNo, len(fields)-1)
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return mesh.NodeInput{}, rtmerr.Wrap(rtmerr.MeshDegenerate, "mesh", err, "line %d: bad GRID id", lineNo)
	}
	x, ex := strconv.ParseFloat(fields[2], 64)
	y, ey := strconv.ParseFloat(fields[3], 64)
	z, ez := strconv.ParseFloat(fields[4], 64)
	if ex != nil || ey != nil || ez != nil {
		return mesh.NodeInput{}, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "line %d: bad GRID coordinates", lineNo)
	}
	return mesh.NodeInput{ExternalID: id, X: x, Y: y, Z: z}, nil
}

func parseCTria3(fields []string, lineNo int) (mesh.TriangleInput, error) {
	if len(fields) != 5 {
		return mesh.TriangleInput{}, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "line %d: CTRIA3 wants 4 fields, got %d", lineNo, len(fields)-1)
	}
	vals := make([]int, 4)
	for i, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return mesh.TriangleInput{}, rtmerr.Wrap(rtmerr.MeshDegenerate, "mesh", err, "line %d: bad CTRIA3 field", lineNo)
		}
		vals[i] = v
	}
	return mesh.TriangleInput{ExternalID: vals[0], NodeExternalIDs: [3]int{vals[1], vals[2], vals[3]}}, nil
}

func parseSet(fields []string, lineNo int) (mesh.PatchInput, error) {
	if len(fields) < 2 {
		return mesh.PatchInput{}, rtmerr.New(rtmerr.ConfigInvalid, "mesh", "line %d: SET needs a type name", lineNo)
	}
	pType, ok := types.PatchTypeNameMap[fields[1]]
	if !ok {
		return mesh.PatchInput{}, rtmerr.New(rtmerr.ConfigInvalid, "mesh", "line %d: unknown patch type %q", lineNo, fields[1])
	}
	ids := make([]int, 0, len(fields)-2)
	for _, f := range fields[2:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return mesh.PatchInput{}, rtmerr.Wrap(rtmerr.ConfigInvalid, "mesh", err, "line %d: bad SET member id", lineNo)
		}
		ids = append(ids, v)
	}
	return mesh.PatchInput{Type: pType, ExternalTriangleIDs: ids}, nil
}
