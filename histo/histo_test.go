package histo

import (
	"encoding/json"
	"math"
	"testing"
)

func TestHistoIO(t *testing.T) {
	dividers := []float64{0, 1, 2, 3, 4, 8}
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	d := NewData(dividers, rawdata, 7)
	if d.ID() != 7 {
		t.Fatalf("ID = %d, want 7", d.ID())
	}
	j, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	d2 := new(Data)
	if err := json.Unmarshal(j, d2); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d2.ID() != d.ID() || d2.Sum() != d.Sum() {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", d2, d)
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	d := NewData([]float64{0, 1, 2, 3}, nil)
	d.AddData(0.5, 0.5, 1.5, 2.9)
	sum := d.Sum()
	d.Normalize()
	if !d.Normalized() {
		t.Fatalf("expected Normalized() == true")
	}
	if math.Abs(d.Sum()-1) > 1e-9 {
		t.Fatalf("normalized sum = %v, want 1", d.Sum())
	}
	d.UnNormalize()
	if math.Abs(d.Sum()-sum) > 1e-9 {
		t.Fatalf("un-normalized sum = %v, want %v", d.Sum(), sum)
	}
}
