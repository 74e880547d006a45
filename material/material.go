// Package material maps patch membership onto per-cell physical
// properties and class, and finalizes the thickness-dependent geometry
// (cell volume, face area) that package geom left incomplete because
// thickness is not known until assignment runs.
//
// Follows an enum-plus-lookup-map idiom: patches override properties and
// class in declaration order, later patches winning over earlier ones.
package material

import (
	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/types"
	"github.com/Zitzeronion/RTMsim/utils"
)

// Assign maps patch membership onto per-cell properties and class. It
// must run after geom.BuildFrames and geom.BuildNeighborGeometry.
// defaults is the property tuple used for any cell not covered by a
// preform_override patch.
//
// Assign is pure with respect to (m.Patches, defaults): calling it twice
// on the same mesh produces identical per-cell property arrays.
func Assign(m *mesh.Mesh, defaults mesh.Properties, refDir utils.Vec3) error {
	if err := validateProps(defaults, "default"); err != nil {
		return err
	}

	for ci := range m.Cells {
		c := &m.Cells[ci]
		c.Props = defaults
		if c.Class != types.Wall {
			c.Class = types.Interior
		}
	}

	for _, patch := range m.Patches {
		switch patch.Type {
		case types.PatchPreformOverride:
			if err := validateProps(*patch.Override, "preform_override"); err != nil {
				return err
			}
			for _, ci := range patch.CellIDs {
				m.Cells[ci].Props = *patch.Override
			}
		case types.PatchInlet:
			for _, ci := range patch.CellIDs {
				m.Cells[ci].Class = types.PressureInlet
			}
		case types.PatchOutlet:
			for _, ci := range patch.CellIDs {
				m.Cells[ci].Class = types.PressureOutlet
			}
		case types.PatchIgnored:
			// no-op by construction
		}
	}

	for ci := range m.Cells {
		c := &m.Cells[ci]
		c.Volume = c.Area * c.Props.Thickness
		if c.Volume <= 0 {
			return rtmerr.New(rtmerr.MeshDegenerate, "volume",
				"cell %d has non-positive volume", c.ExternalID)
		}
		d := c.Props.PrincipalDir
		c.Props.PrincipalDirLocal = utils.Vec2{X: d.Dot(c.Frame.B1), Y: d.Dot(c.Frame.B2)}
	}

	for ci := range m.Cells {
		owner := &m.Cells[ci]
		nbs := m.NeighborsOf(ci)
		for k := range nbs {
			nb := &nbs[k]
			other := &m.Cells[nb.CellID]
			avgThickness := 0.5 * (owner.Props.Thickness + other.Props.Thickness)
			nb.Area = avgThickness * nb.EdgeLength
		}
	}

	return nil
}

func validateProps(p mesh.Properties, field string) error {
	if p.Thickness <= 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, field+".thickness", "thickness must be > 0, got %g", p.Thickness)
	}
	if p.Porosity <= 0 || p.Porosity > 1 {
		return rtmerr.New(rtmerr.ConfigInvalid, field+".porosity", "porosity must be in (0,1], got %g", p.Porosity)
	}
	if p.K1 <= 0 || p.K2 <= 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, field+".permeability", "both principal permeabilities must be > 0, got K1=%g K2=%g", p.K1, p.K2)
	}
	if p.Viscosity <= 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, field+".viscosity", "viscosity must be > 0, got %g", p.Viscosity)
	}
	return nil
}
