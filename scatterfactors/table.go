// Package scatterfactors maps atom index to a real scalar scattering
// amplitude f_j(|q|), recomputed each time the working q-vector changes.
package scatterfactors

import (
	"math"
	"sync"
)

// FormFactor computes an element's scattering length at the given |q|.
// A pluggable func rather than a fixed table lets neutron (q-independent,
// isotope-specific) and X-ray (q-dependent, electron-count-derived)
// factors share the same Table type.
type FormFactor func(symbol string, qlen float64) float64

// bCoherent holds a coarse per-element coherent neutron scattering
// length in femtometers, mirroring the shape of gochem's symbolMass:
// a small map of the common "bio-elements", not a complete periodic
// table. Values from Sears, Neutron News 3 (1992).
var bCoherent = map[string]float64{
	"H":  -3.7406,
	"D":  6.671,
	"C":  6.6511,
	"N":  9.36,
	"O":  5.803,
	"P":  5.13,
	"S":  2.847,
	"Na": 3.63,
	"Cl": 9.577,
	"K":  3.67,
	"Ca": 4.70,
	"Mg": 5.375,
	"Fe": 9.45,
	"Zn": 5.68,
}

// Neutron is the default FormFactor: q-independent coherent neutron
// scattering length, zero for unrecognized elements.
func Neutron(symbol string, _ float64) float64 {
	return bCoherent[symbol]
}

// Table maps a fixed atom selection to per-atom scattering amplitudes
// for whatever q is currently staged. It is safe for concurrent reads;
// Update serializes against readers via a mutex, matching the
// "thread-safe once updated; workers only read" contract of spec §4.3.
type Table struct {
	mu         sync.RWMutex
	symbols    []string // one per selected atom, in selection order
	factor     FormFactor
	background bool
	f          []float64 // current per-atom f_j(|q|), background-subtracted if enabled
}

// NewTable builds a Table over the given per-atom element symbols (in
// selection order) using factor to compute raw form factors. If factor
// is nil, Neutron is used.
func NewTable(symbols []string, factor FormFactor) *Table {
	if factor == nil {
		factor = Neutron
	}
	return &Table{symbols: symbols, factor: factor, f: make([]float64, len(symbols))}
}

// SetBackground enables or disables uniform background subtraction: the
// selection-averaged f is subtracted from every f_j after each Update.
func (t *Table) SetBackground(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.background = on
}

// Update recomputes f_j(|q|) for every selected atom. It must complete
// before any worker reads GetAll/Get for the new q.
func (t *Table) Update(qlen float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sum := 0.0
	for i, sym := range t.symbols {
		v := t.factor(sym, qlen)
		t.f[i] = v
		sum += v
	}
	if t.background && len(t.symbols) > 0 {
		mean := sum / float64(len(t.symbols))
		for i := range t.f {
			t.f[i] -= mean
		}
	}
}

// Get returns f_j for the jth selected atom.
func (t *Table) Get(j int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.f[j]
}

// GetAll returns a copy of the current per-atom scattering amplitudes.
func (t *Table) GetAll() []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]float64, len(t.f))
	copy(out, t.f)
	return out
}

// N returns the number of selected atoms |S|.
func (t *Table) N() int { return len(t.symbols) }

// Finite reports whether every current factor is finite, used by the
// orchestrator's NumericOverflow guard immediately after Update.
func (t *Table) Finite() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, v := range t.f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
