// Package rtm implements the port façade: the single entry point
// that takes a validated parameter bundle and orchestrates mesh
// assembly, geometry, property assignment, the optional
// geometric inlet-port resolver, and the time loop, emitting
// snapshots at scheduled instants and restoring from one on request.
//
// Follows the usual validate-construct-solve shape: check inputs,
// construct the solver type, hand off to its own run loop. The
// construction step here runs through several stages since the mesh
// pipeline builds frames, neighbor geometry, and properties in sequence
// before any cell is ready to step.
package rtm

import (
	"github.com/Zitzeronion/RTMsim/config"
	"github.com/Zitzeronion/RTMsim/geom"
	"github.com/Zitzeronion/RTMsim/inlet"
	"github.com/Zitzeronion/RTMsim/material"
	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/meshio"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/snapshot"
	"github.com/Zitzeronion/RTMsim/solver"
	"github.com/Zitzeronion/RTMsim/types"
	"github.com/Zitzeronion/RTMsim/utils"
)

// epsilon is the pressure-normalization offset.
const epsilon = 100.0

// Progress is called once per scheduled snapshot, after the file has
// been written. Run's caller uses it for a progress line, a live plot
// feed, or nothing at all.
type Progress func(snap *snapshot.Snapshot)

// Run is the single entry point: from a validated Params and a
// directory to write snapshots into, drive the whole pipeline to
// p.TMax (or a restart's continuation of it). Every returned error is
// one of rtmerr's four kinds and is fatal to this invocation.
func Run(p *config.Params, snapshotDir string, onSnapshot Progress) error {
	m, err := buildMesh(p)
	if err != nil {
		return err
	}

	eosKind := types.WeaklyCompressible
	if p.GammaEoS >= 100 {
		eosKind = types.QuasiIncompressible
	}
	eos := solver.NewEoS(eosKind, p.PRef, p.RhoRef, p.GammaEoS)

	dpA := p.PA - p.PInit + epsilon
	dpInit := epsilon
	pins := solver.BoundaryPins{
		RhoInlet: eos.Density(dpA), PInlet: dpA,
		RhoOutlet: eos.Density(dpInit), POutlet: dpInit,
	}

	initial, t0, nOut, err := initialState(m, p, pins, snapshotDir)
	if err != nil {
		return err
	}

	s := solver.New(m, eos, pins, p.TMax, p.NPics, eosKind == types.QuasiIncompressible, initial)
	s.T = t0

	nextSnap := t0 + p.SnapshotInterval
	for {
		if err := s.Step(); err != nil {
			return err
		}
		if s.T >= nextSnap || s.T+s.Dt > p.TMax {
			nOut++
			snap := snapshot.FromMesh(m, s.State, s.T, nOut)
			if err := snapshot.Write(snapshotDir, snap); err != nil {
				return err
			}
			if onSnapshot != nil {
				onSnapshot(snap)
			}
			nextSnap += p.SnapshotInterval
		}
		if s.T > p.TMax {
			return nil
		}
	}
}

// CheckMesh runs the mesh-assembly half of the pipeline
// without constructing a solver or advancing time, for the mesh-check
// subcommand's read-only validation.
func CheckMesh(p *config.Params) (*mesh.Mesh, error) {
	return buildMesh(p)
}

// buildMesh runs mesh.Build, the optional geometric inlet
// resolution, geom.BuildFrames, geom.BuildNeighborGeometry, and
// (material.Assign), in that order -- geometric inlets must be resolved
// before material.Assign runs, since it is what turns a PatchInlet
// membership into the PressureInlet class the flux kernels and solver
// key off of.
func buildMesh(p *config.Params) (*mesh.Mesh, error) {
	nodes, tris, filePatches, err := meshio.ReadFile(p.MeshSource)
	if err != nil {
		return nil, err
	}

	patches := append(filePatches, configPatches(p)...)
	m, err := mesh.Build(nodes, tris, patches)
	if err != nil {
		return nil, err
	}

	if p.InteractiveModeKind() != types.InteractiveNone {
		if err := applyInteractiveInlets(m, p); err != nil {
			return nil, err
		}
	}

	refDir := utils.NewVec3(p.ReferenceDir[0], p.ReferenceDir[1], p.ReferenceDir[2])
	if err := geom.BuildFrames(m, refDir); err != nil {
		return nil, err
	}
	if err := geom.BuildNeighborGeometry(m); err != nil {
		return nil, err
	}
	if err := material.Assign(m, p.DefaultPropsMesh(), refDir); err != nil {
		return nil, err
	}
	return m, nil
}

// configPatches converts the config-declared patches (up to four
// patch-override tuples) into mesh.PatchInput, resolved
// against external triangle ids the same way a mesh-file-embedded SET
// patch would be.
func configPatches(p *config.Params) []mesh.PatchInput {
	out := make([]mesh.PatchInput, len(p.Patches))
	for i, pc := range p.Patches {
		in := mesh.PatchInput{
			Type:                types.PatchTypeNameMap[pc.Type],
			ExternalTriangleIDs: pc.TriangleIDs,
		}
		if pc.Override != nil {
			props := pc.Override.ToMesh()
			in.Override = &props
		}
		out[i] = in
	}
	return out
}

// applyInteractiveInlets implements the geometric inlet-selection
// interactive_mode: resolve the configured seed points
// to cells via the geometric resolver, then either replace every existing inlet patch with
// the seed-derived one (replace_inlets) or add it alongside them
// (add_inlets).
func applyInteractiveInlets(m *mesh.Mesh, p *config.Params) error {
	seeds := make([]utils.Vec3, len(p.InletSeeds))
	for i, seed := range p.InletSeeds {
		seeds[i] = utils.NewVec3(seed[0], seed[1], seed[2])
	}
	cellIDs, err := inlet.ResolveSeeds(m, seeds, p.InletRadius)
	if err != nil {
		return err
	}

	if p.InteractiveModeKind() == types.InteractiveReplaceInlets {
		kept := m.Patches[:0]
		for _, patch := range m.Patches {
			if patch.Type != types.PatchInlet {
				kept = append(kept, patch)
			}
		}
		m.Patches = kept
	}
	m.Patches = append(m.Patches, mesh.Patch{Type: types.PatchInlet, CellIDs: cellIDs})
	return nil
}

// initialState returns the cell state to start (or resume) the solver
// from, along with the starting time and snapshot index. A fresh run
// starts inlet cells at their pinned state and every other cell unfilled
// at the outlet's normalized pressure, the inlet/outlet fixed-state
// convention extended to the as-yet-unreached interior: an empty mold is
// the only physically sensible default for an injection simulation.
func initialState(m *mesh.Mesh, p *config.Params, pins solver.BoundaryPins, snapshotDir string) ([]types.State, float64, int, error) {
	if p.Restart {
		snap, err := snapshot.Read(snapshot.ResolvePath(snapshotDir, p.SnapshotID))
		if err != nil {
			return nil, 0, 0, err
		}
		if snap.N != len(m.Cells) {
			return nil, 0, 0, rtmerr.New(rtmerr.ConfigInvalid, "snapshot_id",
				"restart snapshot has %d cells, mesh has %d", snap.N, len(m.Cells))
		}
		return snap.ToState(), snap.T, snap.NOut, nil
	}

	out := make([]types.State, len(m.Cells))
	for ci := range m.Cells {
		switch m.Cells[ci].Class {
		case types.PressureInlet:
			out[ci] = types.State{Rho: pins.RhoInlet, P: pins.PInlet, Gamma: 1}
		default:
			out[ci] = types.State{Rho: pins.RhoOutlet, P: pins.POutlet, Gamma: 0}
		}
	}
	return out, 0, 0, nil
}
