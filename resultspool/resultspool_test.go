package resultspool

import (
	"testing"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/writer"
)

func TestPushDrainRoundTrip(t *testing.T) {
	s, err := New(1 << 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	recs := []writer.Record{
		{Q: [3]float64{1, 0, 0}, Fqt: []complex128{1, 0.5i, 2 - 1i}, Fq0: 1, Fq: 0.5, Fq2: 4},
		{Q: [3]float64{0, 1, 0}, Fqt: nil, Fq0: 2, Fq: 1, Fq2: 1},
	}
	for _, r := range recs {
		if err := s.Push(r); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	mem := writer.NewMemory()
	if err := s.Drain(mem); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() after Drain = %d, want 0", s.Len())
	}
	if s.Used() != 0 {
		t.Fatalf("Used() after Drain = %d, want 0", s.Used())
	}

	got := mem.Records()
	if len(got) != 2 {
		t.Fatalf("Records() len = %d, want 2", len(got))
	}
	if got[0].Q != recs[0].Q || got[0].Fq0 != recs[0].Fq0 {
		t.Fatalf("record 0 = %+v, want %+v", got[0], recs[0])
	}
	if len(got[0].Fqt) != 3 || got[0].Fqt[1] != 0.5i {
		t.Fatalf("record 0 Fqt = %v, want round trip of %v", got[0].Fqt, recs[0].Fqt)
	}
	if mem.Flushes() != 1 {
		t.Fatalf("Flushes() = %d, want 1", mem.Flushes())
	}
}

func TestPushOversizeRecordIsResourceExhausted(t *testing.T) {
	s, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	big := writer.Record{Fqt: make([]complex128, 1000)}
	err = s.Push(big)
	if err == nil {
		t.Fatal("expected ResourceExhausted, got nil")
	}
	if goscatter.KindOf(err) != goscatter.ResourceExhausted {
		t.Fatalf("KindOf(err) = %v, want ResourceExhausted", goscatter.KindOf(err))
	}
}
