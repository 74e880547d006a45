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

// su2TriangleCode is the SU2 element-type code for a 2-D triangle.
const su2TriangleCode = 5

// ReadSU2Like parses an alternate key=value block format modeled on the
// SU2 mesh file layout: NPOIN/POINT coordinate records, NELEM/triangle
// connectivity records (rejecting any non-triangle element type), and
// NMARK marker blocks whose tag is looked up in types.PatchTypeNameMap
// and whose body lists member triangle external ids directly (unlike
// SU2's own boundary-edge markers, since this format exists to describe
// the same triangle-patch data model as the GRID/CTRIA3/SET reader under
// a different serialization).
func ReadSU2Like(r io.Reader) ([]mesh.NodeInput, []mesh.TriangleInput, []mesh.PatchInput, error) {
	scanner := bufio.NewScanner(r)
	var nodes []mesh.NodeInput
	var tris []mesh.TriangleInput
	var patches []mesh.PatchInput

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		key, count, err := keyValue(line)
		if err != nil {
			return nil, nil, nil, err
		}
		switch key {
		case "NPOIN":
			nodes, err = readSU2Points(scanner, count)
		case "NELEM":
			tris, err = readSU2Elements(scanner, count)
		case "NMARK":
			patches, err = readSU2Markers(scanner, count)
		}
		if err != nil {
			return nil, nil, nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, rtmerr.Wrap(rtmerr.MeshMissing, "mesh", err, "failed reading mesh")
	}
	return nodes, tris, patches, nil
}

func keyValue(line string) (string, int, error) {
	key, value, err := keyValueStr(line)
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return "", 0, rtmerr.Wrap(rtmerr.MeshDegenerate, "mesh", err, "malformed count for %s", key)
	}
	return key, n, nil
}

// keyValueStr splits a "KEY=value" header line without assuming the
// value is numeric, for string-valued headers like MARKER_TAG=outlet.
func keyValueStr(line string) (string, string, error) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", rtmerr.New(rtmerr.MeshDegenerate, "mesh", "malformed header line %q", line)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

func readSU2Points(scanner *bufio.Scanner, n int) ([]mesh.NodeInput, error) {
	nodes := make([]mesh.NodeInput, 0, n)
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "expected %d NPOIN records, found fewer", n)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != 4 {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "point record wants 4 fields, got %d", len(fields))
		}
		x, ex := strconv.ParseFloat(fields[0], 64)
		y, ey := strconv.ParseFloat(fields[1], 64)
		z, ez := strconv.ParseFloat(fields[2], 64)
		id, eid := strconv.Atoi(fields[3])
		if ex != nil || ey != nil || ez != nil || eid != nil {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "bad point record %q", scanner.Text())
		}
		nodes = append(nodes, mesh.NodeInput{ExternalID: id, X: x, Y: y, Z: z})
	}
	return nodes, nil
}

func readSU2Elements(scanner *bufio.Scanner, n int) ([]mesh.TriangleInput, error) {
	tris := make([]mesh.TriangleInput, 0, n)
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "expected %d NELEM records, found fewer", n)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != 5 {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "element record wants 5 fields, got %d", len(fields))
		}
		code, err := strconv.Atoi(fields[0])
		if err != nil || code != su2TriangleCode {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "unsupported element type in record %q", scanner.Text())
		}
		n1, e1 := strconv.Atoi(fields[1])
		n2, e2 := strconv.Atoi(fields[2])
		n3, e3 := strconv.Atoi(fields[3])
		id, e4 := strconv.Atoi(fields[4])
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "bad element record %q", scanner.Text())
		}
		tris = append(tris, mesh.TriangleInput{ExternalID: id, NodeExternalIDs: [3]int{n1, n2, n3}})
	}
	return tris, nil
}

func readSU2Markers(scanner *bufio.Scanner, n int) ([]mesh.PatchInput, error) {
	patches := make([]mesh.PatchInput, 0, n)
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "expected %d NMARK blocks, found fewer", n)
		}
		tagKey, tag, err := keyValueStr(strings.TrimSpace(scanner.Text()))
		if err != nil || tagKey != "MARKER_TAG" {
			return nil, rtmerr.New(rtmerr.ConfigInvalid, "mesh", "expected MARKER_TAG, got %q", scanner.Text())
		}
		pType, ok := types.PatchTypeNameMap[tag]
		if !ok {
			return nil, rtmerr.New(rtmerr.ConfigInvalid, "mesh", "unknown marker tag %q", tag)
		}
		if !scanner.Scan() {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "marker %q is missing MARKER_ELEMS", tag)
		}
		_, count, err := keyValue(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return nil, err
		}
		ids := make([]int, 0, count)
		for j := 0; j < count; j++ {
			if !scanner.Scan() {
				return nil, rtmerr.New(rtmerr.MeshDegenerate, "mesh", "marker %q is short %d ids", tag, count-j)
			}
			id, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil {
				return nil, rtmerr.Wrap(rtmerr.MeshDegenerate, "mesh", err, "bad marker id")
			}
			ids = append(ids, id)
		}
		patches = append(patches, mesh.PatchInput{Type: pType, ExternalTriangleIDs: ids})
	}
	return patches, nil
}
