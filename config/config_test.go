package config

import (
	"testing"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/kernel"
)

func validConfig() Config {
	return Config{
		Target:  "system",
		Workers: 4,
		Limits:  Limits{ScatteringMatrixBytes: 1 << 20, CoordinateSetsBytes: 1 << 20},
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsEmptyTarget(t *testing.T) {
	c := validConfig()
	c.Target = ""
	err := c.Validate()
	if err == nil || goscatter.KindOf(err) != goscatter.ConfigInvalid {
		t.Fatalf("err = %v, want ConfigInvalid", err)
	}
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	c := validConfig()
	c.Workers = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestExitCodeForMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		want ExitCode
	}{
		{nil, ExitSuccess},
		{goscatter.NewError(goscatter.ConfigInvalid, "x"), ExitInitializationFailed},
		{goscatter.NewError(goscatter.ResourceExhausted, "x"), ExitResourceExhausted},
		{goscatter.NewError(goscatter.NumericOverflow, "x"), ExitFatalCompute},
		{goscatter.NewError(goscatter.Fatal, "x"), ExitFatalCompute},
	}
	for _, tc := range cases {
		if got := ExitCodeFor(tc.err); got != tc.want {
			t.Fatalf("ExitCodeFor(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestKernelFamilySelection(t *testing.T) {
	c := validConfig()
	if got := c.KernelFamily(false); got != kernel.AllVectors {
		t.Fatalf("KernelFamily(false) = %v, want AllVectors", got)
	}
	if got := c.KernelFamily(true); got != kernel.SelfVectors {
		t.Fatalf("KernelFamily(true) = %v, want SelfVectors", got)
	}
	c.Orientation.Type = OrientationMultipole
	c.Orientation.MultipoleKind = MultipoleSphere
	if got := c.KernelFamily(false); got != kernel.MultipoleSphere {
		t.Fatalf("KernelFamily with sphere = %v, want MultipoleSphere", got)
	}
}
