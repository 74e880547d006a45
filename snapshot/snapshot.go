// Package snapshot implements the result-snapshot layout: a scalar
// time/index header plus per-cell state arrays and the mesh
// arrays needed to reproduce the run without re-reading the original
// mesh source, for restart and for downstream plotting.
//
// Per-cell arrays are flattened from the mesh's own slices into a plain
// serializable record and encoded with github.com/ghodss/yaml, the same
// library package config uses for its parameter bundle, rather than
// introducing a separate binary format.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"

	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/types"
)

// Snapshot is the logical layout written to disk: scalars T, NOut, N;
// per-cell Rho/U/V/P/Gamma/GammaHat; and the mesh arrays node positions
// and per-cell node ids, so a snapshot file is self-contained.
type Snapshot struct {
	T    float64 `json:"t"`
	NOut int     `json:"n_out"`
	N    int     `json:"n"`

	Rho      []float64 `json:"rho"`
	U        []float64 `json:"u"`
	V        []float64 `json:"v"`
	P        []float64 `json:"p"`
	Gamma    []float64 `json:"gamma"`
	GammaHat []float64 `json:"gamma_hat"`

	NodeX []float64 `json:"node_x"`
	NodeY []float64 `json:"node_y"`
	NodeZ []float64 `json:"node_z"`

	CellNodeIDs [][3]int `json:"cell_node_ids"`
}

// FromMesh builds the snapshot of the mesh's current state at time t,
// numbered nOut. state is indexed by dense cell id, as produced by
// package solver.
func FromMesh(m *mesh.Mesh, state []types.State, t float64, nOut int) *Snapshot {
	n := len(m.Cells)
	s := &Snapshot{
		T: t, NOut: nOut, N: n,
		Rho: make([]float64, n), U: make([]float64, n), V: make([]float64, n),
		P: make([]float64, n), Gamma: make([]float64, n), GammaHat: make([]float64, n),
		NodeX: make([]float64, len(m.Nodes)), NodeY: make([]float64, len(m.Nodes)), NodeZ: make([]float64, len(m.Nodes)),
		CellNodeIDs: make([][3]int, n),
	}
	for i, nd := range m.Nodes {
		s.NodeX[i], s.NodeY[i], s.NodeZ[i] = nd.Pos.X, nd.Pos.Y, nd.Pos.Z
	}
	for ci, c := range m.Cells {
		st := state[ci]
		s.Rho[ci], s.U[ci], s.V[ci], s.P[ci], s.Gamma[ci] = st.Rho, st.U, st.V, st.P, st.Gamma
		s.GammaHat[ci] = types.ReportGamma(c.Class, st.Gamma)
		s.CellNodeIDs[ci] = c.Nodes
	}
	return s
}

// ToState extracts the per-cell conserved-and-primitive state back out
// of a restored snapshot, in the dense cell-id order package solver
// expects. It does not restore GammaHat, which is output-only and never
// consumed by the solver.
func (s *Snapshot) ToState() []types.State {
	out := make([]types.State, s.N)
	for ci := range out {
		out[ci] = types.State{Rho: s.Rho[ci], U: s.U[ci], V: s.V[ci], P: s.P[ci], Gamma: s.Gamma[ci]}
	}
	return out
}

// NumberedPath and CanonicalPath name the two files written per
// snapshot: a numbered one (for a time series of results) and a
// single canonical "latest" one (for restart and for tools that only
// ever want the most recent state).
func NumberedPath(dir string, nOut int) string {
	return filepath.Join(dir, fmt.Sprintf("results_%04d.yaml", nOut))
}

func CanonicalPath(dir string) string {
	return filepath.Join(dir, "results.yaml")
}

// Write encodes s as YAML and writes both the numbered and canonical
// files. Snapshot I/O failure is treated as fatal to the run, so
// the error is returned rather than logged and swallowed.
func Write(dir string, s *Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return rtmerr.Wrap(rtmerr.MeshMissing, "snapshot", err, "failed to encode snapshot %d", s.NOut)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return rtmerr.Wrap(rtmerr.MeshMissing, "snapshot", err, "failed to create snapshot directory %q", dir)
	}
	if err := os.WriteFile(NumberedPath(dir, s.NOut), data, 0o644); err != nil {
		return rtmerr.Wrap(rtmerr.MeshMissing, "snapshot", err, "failed to write numbered snapshot %d", s.NOut)
	}
	if err := os.WriteFile(CanonicalPath(dir), data, 0o644); err != nil {
		return rtmerr.Wrap(rtmerr.MeshMissing, "snapshot", err, "failed to write canonical snapshot")
	}
	return nil
}

// Read decodes a snapshot file written by Write, for restart.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rtmerr.Wrap(rtmerr.MeshMissing, "snapshot_id", err, "cannot open snapshot %q", path)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, rtmerr.Wrap(rtmerr.MeshMissing, "snapshot_id", err, "failed to decode snapshot %q", path)
	}
	return &s, nil
}

// ReadNumbered reads the numbered snapshot nOut from dir; ReadCanonical
// reads the latest-results file. Restart identifies a
// snapshot by an opaque SnapshotID rather than a bare index, so rtm
// resolves that id to one of these two path helpers or to a caller-
// supplied path outright.
func ReadNumbered(dir string, nOut int) (*Snapshot, error) { return Read(NumberedPath(dir, nOut)) }
func ReadCanonical(dir string) (*Snapshot, error)          { return Read(CanonicalPath(dir)) }

// ResolvePath turns a restart's opaque snapshot id into a concrete file
// path: "" or "latest" resolves to the canonical results file in dir;
// an absolute path is used as-is; anything else is resolved relative to
// dir.
func ResolvePath(dir, id string) string {
	if id == "" || id == "latest" {
		return CanonicalPath(dir)
	}
	if filepath.IsAbs(id) {
		return id
	}
	return filepath.Join(dir, id)
}
