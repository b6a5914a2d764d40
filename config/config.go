// Package config defines the external configuration payload consumed
// by the scattering engine, field-for-field per spec.md §6, replacing
// the source's Params singleton with an explicit value threaded
// through constructors (per spec.md §9's "Singletons" design note).
package config

import (
	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/kernel"
	"github.com/rmera/goscatter/reduce"
)

// CorrelationType selects whether the dynamic (time-correlated) path
// runs at all.
type CorrelationType int

const (
	CorrelationNone CorrelationType = iota
	CorrelationTime
)

// OrientationType selects how q-space averaging is performed.
type OrientationType int

const (
	OrientationVectors OrientationType = iota
	OrientationMultipole
)

// DefaultOrientationTolerance is the |q| grouping tolerance used when
// Orientation.Tolerance is left at zero.
const DefaultOrientationTolerance = 1e-9

// MultipoleType selects the multipole expansion's coordinate system,
// meaningful only when Orientation.Type is OrientationMultipole.
type MultipoleType int

const (
	MultipoleSphere MultipoleType = iota
	MultipoleCylinder
)

// Orientation groups the q-space averaging options.
type Orientation struct {
	Type                OrientationType
	MultipoleKind       MultipoleType
	MultipoleResolution int // L >= 0
	MultipoleAxis       [3]float64

	// Tolerance is the largest absolute difference from a class's
	// representative |q| at which a vector is folded into that
	// orientation class for the vectors-family average. Zero (the
	// default) selects DefaultOrientationTolerance.
	Tolerance float64
}

// Correlation groups the dynamic-reduction options.
type Correlation struct {
	Type     CorrelationType
	Method   reduce.Method
	ZeroMean bool
}

// Limits groups the two RAM caps of §5's policy.
type Limits struct {
	ScatteringMatrixBytes int64
	CoordinateSetsBytes   int64
}

// Config mirrors every option spec.md §6 lists.
type Config struct {
	Target      string // selection name
	Center      bool   // post-alignment by centroid
	Correlation Correlation
	Orientation Orientation
	Limits      Limits
	Workers     int // runtime.workers, T
}

// ExitCode classifies a terminal run outcome per spec.md §6.
type ExitCode int

const (
	ExitSuccess              ExitCode = 0
	ExitInitializationFailed ExitCode = 1
	ExitResourceExhausted    ExitCode = 2
	ExitFatalCompute         ExitCode = 3
)

// ExitCodeFor maps a goscatter error taxonomy Kind to the exit code a
// CLI driver should return; nil is success.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch goscatter.KindOf(err) {
	case goscatter.ConfigInvalid:
		return ExitInitializationFailed
	case goscatter.ResourceExhausted:
		return ExitResourceExhausted
	default:
		return ExitFatalCompute
	}
}

// Validate checks the configuration is internally consistent,
// returning a ConfigInvalid error describing the first problem found.
func (c Config) Validate() error {
	if c.Target == "" {
		return goscatter.NewError(goscatter.ConfigInvalid, "scattering.target must not be empty")
	}
	if c.Workers <= 0 {
		return goscatter.NewError(goscatter.ConfigInvalid, "runtime.workers must be >= 1")
	}
	if c.Limits.ScatteringMatrixBytes <= 0 {
		return goscatter.NewError(goscatter.ConfigInvalid, "limits.memory.scattering_matrix must be > 0")
	}
	if c.Orientation.Type == OrientationMultipole && c.Orientation.MultipoleResolution < 0 {
		return goscatter.NewError(goscatter.ConfigInvalid, "scattering.average.orientation.multipole.resolution must be >= 0")
	}
	return nil
}

// KernelFamily derives which kernel.Family a configuration selects,
// since the source config doesn't carry the self-vs-all distinction
// directly (that comes from which selection the caller targets).
func (c Config) KernelFamily(self bool) kernel.Family {
	switch {
	case c.Orientation.Type == OrientationMultipole && c.Orientation.MultipoleKind == MultipoleSphere:
		return kernel.MultipoleSphere
	case c.Orientation.Type == OrientationMultipole && c.Orientation.MultipoleKind == MultipoleCylinder:
		return kernel.MultipoleCylinder
	case self:
		return kernel.SelfVectors
	default:
		return kernel.AllVectors
	}
}
