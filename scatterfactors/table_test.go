package scatterfactors

import "testing"

func TestUpdateAndBackground(t *testing.T) {
	tab := NewTable([]string{"H", "O", "H"}, Neutron)
	tab.Update(1.0)
	all := tab.GetAll()
	if all[0] != bCoherent["H"] || all[1] != bCoherent["O"] {
		t.Fatalf("unexpected raw factors: %v", all)
	}
	tab.SetBackground(true)
	tab.Update(1.0)
	sum := 0.0
	for _, v := range tab.GetAll() {
		sum += v
	}
	if sum > 1e-9 || sum < -1e-9 {
		t.Fatalf("background-subtracted factors should sum to ~0, got %v", sum)
	}
}

func TestFiniteGuard(t *testing.T) {
	tab := NewTable([]string{"H"}, func(string, float64) float64 { return 1 })
	tab.Update(0)
	if !tab.Finite() {
		t.Fatalf("expected finite factors")
	}
}
