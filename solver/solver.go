// Package solver runs the time loop, conservation updates, the
// equation-of-state evaluation, boundary re-pinning, and adaptive Δt.
//
// Each step prepares fluxes, reduces a timestep, and updates state, all
// split across goroutines joined by a sync.WaitGroup, with a cell range
// partitioned evenly across workers.
package solver

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Zitzeronion/RTMsim/flux"
	"github.com/Zitzeronion/RTMsim/gradient"
	"github.com/Zitzeronion/RTMsim/mesh"
	"github.com/Zitzeronion/RTMsim/rtmerr"
	"github.com/Zitzeronion/RTMsim/types"
	"github.com/Zitzeronion/RTMsim/utils"
)

// BoundaryPins is the fixed state required of pressure
// boundary cells at the start and end of every step: pinned density and
// normalized pressure, zero in-plane velocity, and a fixed fill fraction
// (1 at an inlet, 0 at an outlet).
type BoundaryPins struct {
	RhoInlet, PInlet   float64
	RhoOutlet, POutlet float64
}

// Solver owns one mesh's worth of double-buffered cell state and steps
// it forward in time.
type Solver struct {
	Mesh  *mesh.Mesh
	EoS   EoS
	Pins  BoundaryPins
	TMax  float64
	NPics int
	Quasi bool // selects beta2=0.01 instead of 0.1 in the adaptive timestep

	State []types.State
	next  []types.State

	T         float64
	Dt        float64
	StepCount int
}

const (
	beta1 = 1.0
)

// New builds a Solver with the given initial state, already pinned at
// boundary cells by the caller (package rtm seeds it).
func New(m *mesh.Mesh, eos EoS, pins BoundaryPins, tMax float64, nPics int, quasi bool, initial []types.State) *Solver {
	s := &Solver{
		Mesh: m, EoS: eos, Pins: pins, TMax: tMax, NPics: nPics, Quasi: quasi,
		State: initial,
		next:  make([]types.State, len(initial)),
	}
	s.Dt = s.InitialDt()
	return s
}

// InitialDt implements the initial timestep rule: beta1 times
// the square root of the smallest cell area, divided by the fastest
// Darcy characteristic speed anywhere in the mesh.
func (s *Solver) InitialDt() float64 {
	areaMin := math.Inf(1)
	vMax := 0.0
	for ci := range s.Mesh.Cells {
		c := &s.Mesh.Cells[ci]
		if c.Area < areaMin {
			areaMin = c.Area
		}
		dp := s.State[ci].P
		v := c.Props.K1 * dp / (c.Props.Viscosity * c.Area)
		if v > vMax {
			vMax = v
		}
	}
	if vMax < utils.Tol {
		vMax = utils.Tol
	}
	return beta1 * math.Sqrt(areaMin) / vMax
}

// Step advances the solver by one Δt: gradient, flux accumulation
// update, conservation update, clamping, boundary re-pinning, and adaptive
// Δt. It returns NumericalInstability if any updated cell produces a
// non-finite quantity.
func (s *Solver) Step() error {
	n := len(s.Mesh.Cells)
	grads := make([]utils.Vec2, n)
	parallelFor(n, func(lo, hi int) {
		for ci := lo; ci < hi; ci++ {
			grads[ci] = s.gradientAt(ci)
		}
	})

	accums := make([]flux.Accum, n)
	parallelFor(n, func(lo, hi int) {
		for ci := lo; ci < hi; ci++ {
			accums[ci] = flux.AtCell(s.Mesh, ci, s.State, grads)
		}
	})

	var failed atomic.Value // holds *rtmerr.Error
	dt := s.Dt
	parallelFor(n, func(lo, hi int) {
		for ci := lo; ci < hi; ci++ {
			if err := s.updateCell(ci, dt, accums[ci], grads[ci]); err != nil {
				failed.Store(err)
			}
		}
	})
	if v := failed.Load(); v != nil {
		return v.(*rtmerr.Error)
	}

	s.State, s.next = s.next, s.State
	s.T += dt
	s.StepCount++

	if s.StepCount > s.NPics {
		s.adaptDt()
	}
	return nil
}

func (s *Solver) gradientAt(ci int) utils.Vec2 {
	nbs := s.Mesh.NeighborsOf(ci)
	deltas := make([]gradient.NeighborDelta, len(nbs))
	for k, nb := range nbs {
		deltas[k] = gradient.NeighborDelta{Delta: nb.Delta, NeighP: s.State[nb.CellID].P}
	}
	return gradient.AtCell(s.State[ci].P, deltas)
}

func (s *Solver) updateCell(ci int, dt float64, acc flux.Accum, grad utils.Vec2) error {
	c := &s.Mesh.Cells[ci]
	cur := s.State[ci]

	switch c.Class {
	case types.PressureInlet:
		s.next[ci] = types.State{Rho: s.Pins.RhoInlet, U: 0, V: 0, P: s.Pins.PInlet, Gamma: 1}
		return nil
	case types.PressureOutlet:
		s.next[ci] = types.State{Rho: s.Pins.RhoOutlet, U: 0, V: 0, P: s.Pins.POutlet, Gamma: 0}
		return nil
	}

	vol := c.Volume
	rhoNew := cur.Rho - (dt/vol)*acc.FRho
	if rhoNew < 0 {
		rhoNew = 0
	}

	uNew := (cur.Rho*cur.U - (dt/vol)*acc.FU - dt*grad.X) / (rhoNew + dt*c.Props.Viscosity/c.Props.K1)
	vNew := (cur.Rho*cur.V - (dt/vol)*acc.FV - dt*grad.Y) / (rhoNew + dt*c.Props.Viscosity/c.Props.K2)

	phi := c.Props.Porosity
	gammaNew := (phi*cur.Gamma - (dt/vol)*(acc.FGamma-cur.Gamma*acc.FVol)) / phi
	gammaNew = utils.Clamp(gammaNew, 0, 1)

	pNew := s.EoS.Pressure(rhoNew)

	if !finite(rhoNew) || !finite(uNew) || !finite(vNew) || !finite(pNew) || !finite(gammaNew) {
		return rtmerr.New(rtmerr.NumericalInstability, "cell",
			"cell %d produced a non-finite state at t=%g", c.ExternalID, s.T)
	}

	s.next[ci] = types.State{Rho: rhoNew, U: uNew, V: vNew, P: pNew, Gamma: gammaNew}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// adaptDt recomputes the adaptive timestep from the current flow field.
func (s *Solver) adaptDt() {
	const w = 0.5
	beta2 := 0.1
	if s.Quasi {
		beta2 = 0.01
	}

	minRatio := math.Inf(1)
	for ci := range s.Mesh.Cells {
		c := &s.Mesh.Cells[ci]
		st := s.State[ci]
		speed := math.Sqrt(st.U*st.U + st.V*st.V)
		if speed < utils.Tol {
			continue
		}
		ratio := math.Sqrt(c.Volume/c.Props.Thickness) / speed
		if ratio < minRatio {
			minRatio = ratio
		}
	}
	if math.IsInf(minRatio, 1) {
		return
	}

	dt := (1-w)*s.Dt + w*beta2*minRatio
	dtCap := s.TMax / (4 * float64(s.NPics))
	if dt > dtCap {
		dt = dtCap
	}
	s.Dt = dt
}

func parallelFor(n int, fn func(lo, hi int)) {
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
