// Package mesh assembles the mesh and holds the mesh-resident parts of
// the data model: nodes, cells, half-edge-derived neighbor adjacency,
// and patches. Geometry (local frames, flattened
// neighbor construction) is filled in by package geom; properties are
// filled in by package material. Both operate in place on a *Mesh
// produced here.
package mesh

import (
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/types"
	"github.com/Zitzeronion/RTMsim/utils"
)

// MaxNeighbors is a mesh-hygiene guard: a cell with more neighbors than
// this is rejected rather than silently truncated.
const MaxNeighbors = 10

// Node is immutable after load: an external id plus a global-frame
// position.
type Node struct {
	ExternalID int
	Pos        utils.Vec3
}

// Properties is the per-cell physical-property tuple: thickness,
// porosity, the two in-plane principal permeabilities, the
// principal direction (stored both as supplied, in the global frame,
// and — once geom has built the cell's local frame — projected into it),
// and the resin dynamic viscosity.
type Properties struct {
	Thickness         float64
	Porosity          float64
	K1                float64 // principal permeability K
	K2                float64 // cross permeability alpha*K
	PrincipalDir      utils.Vec3 // as supplied, global frame; need not be tangent to the surface
	PrincipalDirLocal utils.Vec2 // projection into the cell's local frame, set by material.Assign
	Viscosity         float64
}

// Frame is a cell's per-triangle orthonormal local frame.
type Frame struct {
	B1, B2, B3 utils.Vec3
	Theta      float64 // rotation applied about B3 to align B1 with the reference direction
}

// Neighbor is one entry of a cell's flattened-geometry neighbor record.
// EdgeNodes holds the shared edge's two dense node indices; everything
// else is filled in by package geom.
type Neighbor struct {
	CellID     int
	EdgeNodes  [2]int
	EdgeLength float64    // true 3-D length of the shared edge, set by geom
	Normal     utils.Vec2 // set by geom
	Area       float64    // averaged-thickness face area, set by material once thickness is known
	Delta      utils.Vec2 // flattened owner-center-to-neighbor-center vector, set by geom
	Rotation   utils.Mat2 // T: maps a velocity in the neighbor's frame into the owner's frame, set by geom
}

// Cell is a triangle of the shell mesh plus all the per-cell bookkeeping
// the solver needs.
type Cell struct {
	ExternalID int
	Nodes      [3]int // dense node indices, canonical ascending-by-original-id order
	Center     utils.Vec3
	Class      types.CellClass
	Frame      Frame
	Planar     [3]utils.Vec2 // vertex coordinates relative to Center, in the cell's own local frame
	Area       float64       // 0.5*|edge1 x edge2|, set by geom; thickness-independent
	Volume     float64       // Area*Props.Thickness, finalized by material.Assign
	Props      Properties

	neighborOffset int
	neighborCount  int
}

// Patch is an unordered set of cells sharing a type tag and, for
// preform_override, an override property tuple.
type Patch struct {
	Type     types.PatchType
	CellIDs  []int
	Override *Properties // non-nil only for PatchPreformOverride
}

// Mesh is the assembled, load-time-immutable mesh structure the solver
// orchestrates the rest of the pipeline over.
type Mesh struct {
	Nodes     []Node
	Cells     []Cell
	Neighbors []Neighbor // flat CSR-style array; see Mesh.NeighborsOf
	Patches   []Patch
}

// NodeInput, TriangleInput, and PatchInput are the load-time inputs to
// Build; they use external (file-level) identifiers throughout.
type NodeInput struct {
	ExternalID int
	X, Y, Z    float64
}

type TriangleInput struct {
	ExternalID      int
	NodeExternalIDs [3]int
}

type PatchInput struct {
	Type                types.PatchType
	ExternalTriangleIDs []int
	Override            *Properties
}

// faceKey packs two dense node indices into a single comparable value,
// smaller index first. A plain ascending-pair key is enough here since
// node indices never need curve or edge-interior machinery.
type faceKey uint64

func newFaceKey(a, b int) faceKey {
	if a > b {
		a, b = b, a
	}
	return faceKey(uint64(uint32(a)) | uint64(uint32(b))<<32)
}

type halfEdge struct {
	cellIdx int
	nodes   [2]int
}

// Build resolves external ids to dense indices,
// canonicalizes triangle node order, derives neighbor/wall/degenerate
// classification from half-edge grouping, enforces the neighbor cap, and
// resolves patch membership.
func Build(nodes []NodeInput, tris []TriangleInput, patches []PatchInput) (*Mesh, error) {
	if len(nodes) == 0 {
		return nil, rtmerr.New(rtmerr.MeshDegenerate, "nodes", "mesh has no nodes")
	}
	if len(tris) == 0 {
		return nil, rtmerr.New(rtmerr.MeshDegenerate, "triangles", "mesh has no triangles")
	}

	nodeIndex := make(map[int]int, len(nodes))
	outNodes := make([]Node, len(nodes))
	for i, n := range nodes {
		if _, dup := nodeIndex[n.ExternalID]; dup {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "nodes", "duplicate node id %d", n.ExternalID)
		}
		nodeIndex[n.ExternalID] = i
		outNodes[i] = Node{ExternalID: n.ExternalID, Pos: utils.NewVec3(n.X, n.Y, n.Z)}
	}

	triIndex := make(map[int]int, len(tris))
	cells := make([]Cell, len(tris))
	seenTriples := make(map[[3]int]int, len(tris))
	faceGroups := make(map[faceKey][]halfEdge)

	for ti, t := range tris {
		if _, dup := triIndex[t.ExternalID]; dup {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "triangles", "duplicate triangle id %d", t.ExternalID)
		}
		triIndex[t.ExternalID] = ti

		// Canonicalize: sort the triangle's node triple by original
		// external id, ascending.
		ext := t.NodeExternalIDs
		if ext[0] > ext[1] {
			ext[0], ext[1] = ext[1], ext[0]
		}
		if ext[1] > ext[2] {
			ext[1], ext[2] = ext[2], ext[1]
		}
		if ext[0] > ext[1] {
			ext[0], ext[1] = ext[1], ext[0]
		}

		var dense [3]int
		for k, eid := range ext {
			di, ok := nodeIndex[eid]
			if !ok {
				return nil, rtmerr.New(rtmerr.MeshDegenerate, "triangles",
					"triangle %d references unknown node %d", t.ExternalID, eid)
			}
			dense[k] = di
		}
		if prev, dup := seenTriples[dense]; dup {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "triangles",
				"triangle %d duplicates triangle %d", t.ExternalID, tris[prev].ExternalID)
		}
		seenTriples[dense] = ti

		p0, p1, p2 := outNodes[dense[0]].Pos, outNodes[dense[1]].Pos, outNodes[dense[2]].Pos
		e1, e2 := p1.Sub(p0), p2.Sub(p0)
		if e1.Cross(e2).Norm() < utils.Tol {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "triangles",
				"triangle %d is degenerate (zero area / collinear nodes)", t.ExternalID)
		}

		cells[ti] = Cell{
			ExternalID: t.ExternalID,
			Nodes:      dense,
			Center:     p0.Add(p1).Add(p2).Scale(1.0 / 3.0),
			Class:      types.Interior,
		}

		pairs := [3][2]int{{dense[0], dense[1]}, {dense[0], dense[2]}, {dense[1], dense[2]}}
		for _, pr := range pairs {
			key := newFaceKey(pr[0], pr[1])
			faceGroups[key] = append(faceGroups[key], halfEdge{cellIdx: ti, nodes: pr})
		}
	}

	neighborLists := make([][]Neighbor, len(cells))
	for _, group := range faceGroups {
		switch len(group) {
		case 1:
			cells[group[0].cellIdx].Class = types.Wall
		case 2:
			a, b := group[0], group[1]
			neighborLists[a.cellIdx] = append(neighborLists[a.cellIdx], Neighbor{CellID: b.cellIdx, EdgeNodes: a.nodes})
			neighborLists[b.cellIdx] = append(neighborLists[b.cellIdx], Neighbor{CellID: a.cellIdx, EdgeNodes: b.nodes})
		default:
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "triangles",
				"edge (%d,%d) is shared by %d triangles, at most 2 are supported",
				group[0].nodes[0], group[0].nodes[1], len(group))
		}
	}

	var flat []Neighbor
	for ci := range cells {
		if len(neighborLists[ci]) > MaxNeighbors {
			return nil, rtmerr.New(rtmerr.MeshDegenerate, "triangles",
				"cell %d has %d neighbors, exceeding the limit of %d",
				cells[ci].ExternalID, len(neighborLists[ci]), MaxNeighbors)
		}
		cells[ci].neighborOffset = len(flat)
		cells[ci].neighborCount = len(neighborLists[ci])
		flat = append(flat, neighborLists[ci]...)
	}

	m := &Mesh{Nodes: outNodes, Cells: cells, Neighbors: flat}

	for _, pin := range patches {
		cellIDs := make([]int, 0, len(pin.ExternalTriangleIDs))
		for _, extID := range pin.ExternalTriangleIDs {
			ci, ok := triIndex[extID]
			if !ok {
				return nil, rtmerr.New(rtmerr.ConfigInvalid, "patch",
					"patch references unknown triangle id %d", extID)
			}
			cellIDs = append(cellIDs, ci)
		}
		if pin.Type == types.PatchPreformOverride && pin.Override == nil {
			return nil, rtmerr.New(rtmerr.ConfigInvalid, "patch",
				"preform_override patch has no override properties")
		}
		m.Patches = append(m.Patches, Patch{Type: pin.Type, CellIDs: cellIDs, Override: pin.Override})
	}

	return m, nil
}

// NeighborsOf returns cell ci's neighbor records, a zero-copy view into
// the mesh's flat CSR-style neighbor array.
func (m *Mesh) NeighborsOf(ci int) []Neighbor {
	c := &m.Cells[ci]
	return m.Neighbors[c.neighborOffset : c.neighborOffset+c.neighborCount]
}
