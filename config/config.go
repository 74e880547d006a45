// Package config implements the validated parameter bundle: a single
// record loaded from YAML and checked once by Validate, in place of a
// many-argument entry point.
//
// A json-tagged struct parsed with github.com/ghodss/yaml, extended with
// a Validate method for the checks a config file alone can't guarantee.
package config

import (
	"math"

	"github.com/ghodss/yaml"

	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/types"
	"github.com/Zitzeronion/RTMsim/utils"
)

// PropsConfig is the YAML shape of a property tuple (default or patch
// override). Tagged with "json", not "yaml": github.com/ghodss/yaml
// marshals through encoding/json under the hood and only honors json
// tags.
type PropsConfig struct {
	Thickness    float64    `json:"thickness"`
	Porosity     float64    `json:"porosity"`
	K1           float64    `json:"k1"`
	K2           float64    `json:"k2"`
	PrincipalDir [3]float64 `json:"principal_dir"`
	Viscosity    float64    `json:"viscosity"`
}

// ToMesh converts the YAML property tuple into the mesh package's
// Properties type, used both for the default properties and for each
// preform_override patch's override tuple.
func (p PropsConfig) ToMesh() mesh.Properties {
	return mesh.Properties{
		Thickness:    p.Thickness,
		Porosity:     p.Porosity,
		K1:           p.K1,
		K2:           p.K2,
		PrincipalDir: utils.NewVec3(p.PrincipalDir[0], p.PrincipalDir[1], p.PrincipalDir[2]),
		Viscosity:    p.Viscosity,
	}
}

// PatchConfig is one named subset of triangle ids plus a type tag, and
// optionally a property override when Type is preform_override.
type PatchConfig struct {
	Type        string       `json:"type"`
	TriangleIDs []int        `json:"triangle_ids"`
	Override    *PropsConfig `json:"override,omitempty"`
}

// Params is the single validated entry point.
type Params struct {
	MeshSource string `json:"mesh_source"`

	TMax     float64 `json:"t_max"`
	PRef     float64 `json:"p_ref"`
	RhoRef   float64 `json:"rho_ref"`
	GammaEoS float64 `json:"gamma_eos"`
	Mu       float64 `json:"mu"`

	PA    float64 `json:"p_a"`
	PInit float64 `json:"p_init"`

	DefaultProps PropsConfig   `json:"default_props"`
	ReferenceDir [3]float64    `json:"reference_direction"`
	Patches      []PatchConfig `json:"patches"`

	Restart    bool   `json:"restart"`
	SnapshotID string `json:"snapshot_id"`

	InteractiveMode string       `json:"interactive_mode"` // none|replace_inlets|add_inlets
	InletSeeds      [][3]float64 `json:"inlet_seeds"`
	InletRadius     float64      `json:"inlet_radius"`

	NPics            int     `json:"n_pics"`
	SnapshotInterval float64 `json:"snapshot_interval"`
}

// Load parses a YAML-encoded parameter bundle and validates it.
func Load(data []byte) (*Params, error) {
	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, rtmerr.Wrap(rtmerr.ConfigInvalid, "", err, "failed to parse configuration")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every field and reports the first failure as a
// ConfigInvalid naming the offending field. NPics is clamped to
// [4,100] and rounded up to a multiple of 4 in place, rather than
// rejected.
func (p *Params) Validate() error {
	if p.MeshSource == "" {
		return rtmerr.New(rtmerr.ConfigInvalid, "mesh_source", "mesh source must be set")
	}
	if p.TMax <= 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, "t_max", "t_max must be > 0, got %g", p.TMax)
	}
	if p.PRef <= 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, "p_ref", "p_ref must be > 0, got %g", p.PRef)
	}
	if p.RhoRef <= 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, "rho_ref", "rho_ref must be > 0, got %g", p.RhoRef)
	}
	if p.GammaEoS <= 1 {
		return rtmerr.New(rtmerr.ConfigInvalid, "gamma_eos", "gamma_eos must be > 1, got %g", p.GammaEoS)
	}
	if p.Mu <= 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, "mu", "mu must be > 0, got %g", p.Mu)
	}
	if p.PInit < 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, "p_init", "p_init must be >= 0, got %g", p.PInit)
	}
	if p.PA <= p.PInit {
		return rtmerr.New(rtmerr.ConfigInvalid, "p_a", "p_a (%g) must exceed p_init (%g)", p.PA, p.PInit)
	}
	if len(p.Patches) > 4 {
		return rtmerr.New(rtmerr.ConfigInvalid, "patches", "at most four patches are supported, got %d", len(p.Patches))
	}
	for i, patch := range p.Patches {
		if _, ok := types.PatchTypeNameMap[patch.Type]; !ok {
			return rtmerr.New(rtmerr.ConfigInvalid, "patches", "patch %d has unknown type %q", i, patch.Type)
		}
		if types.PatchTypeNameMap[patch.Type] == types.PatchPreformOverride && patch.Override == nil {
			return rtmerr.New(rtmerr.ConfigInvalid, "patches", "patch %d is preform_override but has no override", i)
		}
	}
	switch p.InteractiveMode {
	case "", "none", "replace_inlets", "add_inlets":
	default:
		return rtmerr.New(rtmerr.ConfigInvalid, "interactive_mode", "unknown interactive mode %q", p.InteractiveMode)
	}
	if p.InteractiveMode == "replace_inlets" || p.InteractiveMode == "add_inlets" {
		if len(p.InletSeeds) == 0 {
			return rtmerr.New(rtmerr.ConfigInvalid, "inlet_seeds", "interactive inlet mode requires at least one seed")
		}
		if p.InletRadius <= 0 {
			return rtmerr.New(rtmerr.ConfigInvalid, "inlet_radius", "inlet_radius must be > 0, got %g", p.InletRadius)
		}
	}
	if p.Restart && p.SnapshotID == "" {
		return rtmerr.New(rtmerr.ConfigInvalid, "snapshot_id", "restart requires a snapshot_id")
	}
	if p.SnapshotInterval < 0 {
		return rtmerr.New(rtmerr.ConfigInvalid, "snapshot_interval", "snapshot_interval must be >= 0, got %g", p.SnapshotInterval)
	}
	if p.SnapshotInterval == 0 {
		p.SnapshotInterval = p.TMax / 10
	}
	if p.ReferenceDir == [3]float64{} {
		p.ReferenceDir = [3]float64{1, 0, 0}
	}

	p.NPics = clampNPics(p.NPics)
	return nil
}

func clampNPics(n int) int {
	if n < 4 {
		n = 4
	}
	if n > 100 {
		n = 100
	}
	return int(math.Ceil(float64(n)/4)) * 4
}

// DefaultPropsMesh converts the YAML default-properties tuple into the
// mesh package's Properties type.
func (p *Params) DefaultPropsMesh() mesh.Properties { return p.DefaultProps.ToMesh() }

// InteractiveModeKind resolves the YAML interactive-mode string into the
// types.InteractiveMode enum.
func (p *Params) InteractiveModeKind() types.InteractiveMode {
	switch p.InteractiveMode {
	case "replace_inlets":
		return types.InteractiveReplaceInlets
	case "add_inlets":
		return types.InteractiveAddInlets
	default:
		return types.InteractiveNone
	}
}
