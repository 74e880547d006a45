// Package types carries the small shared enumerations used across the
// mesh, material, and solver packages: cell classification, patch
// typing, and the equation-of-state selector.
package types

//go:generate stringer -type=CellClass

// CellClass is the persistent classification of a cell. It is assigned
// once at load time (mesh assembly + patch application) and never
// changes during a run; it is the only state-machine in the core, and
// it has no transitions.
type CellClass uint8

const (
	Interior CellClass = iota
	Wall
	PressureInlet
	PressureOutlet
)

func (c CellClass) String() string {
	switch c {
	case Interior:
		return "interior"
	case Wall:
		return "wall"
	case PressureInlet:
		return "pressure_inlet"
	case PressureOutlet:
		return "pressure_outlet"
	default:
		return "unknown"
	}
}

// PatchType is the type tag carried by a patch of cell ids.
type PatchType uint8

const (
	PatchIgnored PatchType = iota
	PatchInlet
	PatchOutlet
	PatchPreformOverride
)

func (p PatchType) String() string {
	switch p {
	case PatchIgnored:
		return "ignored"
	case PatchInlet:
		return "inlet"
	case PatchOutlet:
		return "outlet"
	case PatchPreformOverride:
		return "preform_override"
	default:
		return "unknown"
	}
}

// PatchTypeNameMap is a string-to-enum lookup table used when parsing a
// config file.
var PatchTypeNameMap = map[string]PatchType{
	"ignored":          PatchIgnored,
	"ignore":           PatchIgnored,
	"inlet":            PatchInlet,
	"outlet":           PatchOutlet,
	"preform_override": PatchPreformOverride,
	"preform-override": PatchPreformOverride,
	"override":         PatchPreformOverride,
}

// EoSKind selects which of the two equation-of-state branches
// a run uses. The choice is made once from the compressibility
// control gamma_EoS and is fixed for the run.
type EoSKind uint8

const (
	WeaklyCompressible EoSKind = iota
	QuasiIncompressible
)

func (k EoSKind) String() string {
	if k == QuasiIncompressible {
		return "quasi_incompressible"
	}
	return "weakly_compressible"
}

// InteractiveMode controls whether inlet ports are resolved from a
// geometric seed set and how that resolution combines with any
// inlet patch already present in the config.
type InteractiveMode uint8

const (
	InteractiveNone InteractiveMode = iota
	InteractiveReplaceInlets
	InteractiveAddInlets
)

// State is the per-cell conserved-and-primitive state:
// density, the two in-plane velocity components in the cell's local
// frame, normalized pressure, and fill fraction.
type State struct {
	Rho   float64
	U, V  float64
	P     float64
	Gamma float64
}

// ReportGamma returns the output-only gamma-hat encoding:
// fill fraction for interior/wall cells, -1 for pressure_inlet, -2 for
// pressure_outlet. It is never consumed by the solver, only written to
// snapshots.
func ReportGamma(class CellClass, gamma float64) float64 {
	switch class {
	case PressureInlet:
		return -1
	case PressureOutlet:
		return -2
	default:
		return gamma
	}
}
