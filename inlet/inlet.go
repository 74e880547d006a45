// Package inlet expands a set of 3-D seed points into a
// set of cell ids, by growing a search radius until each seed finds at
// least one cell.
package inlet

import (
	"sort"

	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/utils"
)

// maxRetries bounds the radius-growth loop; a mesh that
// never yields a cell within any growable radius is a configuration
// error, not an infinite loop.
const maxRetries = 50

// ResolveSeeds expands each seed into a cell set: for each seed, collect every
// cell whose center lies within r of the seed; if empty, multiply r by
// 1.1 and retry. All cells found across all seeds are accumulated into
// one deduplicated, id-ordered slice suitable for a single inlet patch.
func ResolveSeeds(m *mesh.Mesh, seeds []utils.Vec3, radius float64) ([]int, error) {
	if radius <= 0 {
		return nil, rtmerr.New(rtmerr.ConfigInvalid, "inlet_radius", "inlet seed radius must be > 0, got %g", radius)
	}

	found := make(map[int]struct{})
	for _, seed := range seeds {
		r := radius
		matched := cellsWithin(m, seed, r)
		for retries := 0; len(matched) == 0; retries++ {
			if retries >= maxRetries {
				return nil, rtmerr.New(rtmerr.ConfigInvalid, "inlet_seed",
					"seed (%g,%g,%g) found no cell within %d radius growths", seed.X, seed.Y, seed.Z, maxRetries)
			}
			r *= 1.1
			matched = cellsWithin(m, seed, r)
		}
		for _, ci := range matched {
			found[ci] = struct{}{}
		}
	}

	out := make([]int, 0, len(found))
	for ci := range found {
		out = append(out, ci)
	}
	sort.Ints(out)
	return out, nil
}

func cellsWithin(m *mesh.Mesh, seed utils.Vec3, r float64) []int {
	var out []int
	for ci := range m.Cells {
		if m.Cells[ci].Center.Sub(seed).Norm() <= r {
			out = append(out, ci)
		}
	}
	return out
}
