// Package histo provides a simple bucketed histogram, used here as a
// diagnostic tool: qset uses it to report how many q-vectors fall into
// each orientation class.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Data is a single histogram: a set of bucket dividers and the count
// (or, once Normalize is called, the fraction) of data points falling
// in each bucket.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{
		ID:         D.id,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

// ID returns the ID of the histogram, or -1 if none was given.
func (D *Data) ID() int { return D.id }

// String prints a -hopefully- pretty string representation of the
// histogram. The representation uses 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.dividers)-1)
	h := make([]string, 0, len(D.dividers)-1)
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

// NewData returns a new histogram from the given dividers and rawdata.
// rawdata can be nil, in which case an empty histogram is created. If an
// ID is given it is set, otherwise the ID defaults to -1.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	d := new(Data)
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

// AddData adds the given data point(s) to the histogram. Values outside
// [dividers[0], dividers[last]) are omitted.
func (D *Data) AddData(point ...float64) {
	var norma bool
	if D.normalized {
		norma = true
		D.UnNormalize()
	}
	for _, v := range point {
		for j, w := range D.dividers {
			if j == len(D.dividers)-1 {
				break
			}
			if w <= v && v < D.dividers[j+1] {
				D.histo[j]++
				break
			}
		}
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

// Normalized returns true if the histogram is normalized.
func (D *Data) Normalized() bool { return D.normalized }

// Normalize normalizes the histogram in place.
func (D *Data) Normalize() { D.normaunnorma(true) }

// UnNormalize un-normalizes the histogram in place.
func (D *Data) UnNormalize() { D.normaunnorma(false) }

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

// CopyDividers copies the histogram's dividers.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	return floats.ScaleTo(d, 0, D.dividers)
}

// Copy copies the histogram's bucket values.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	return floats.ScaleTo(d, 0, D.histo)
}

// View returns the underlying bucket values without copying.
func (D *Data) View() []float64 { return D.histo }

// Add adds the histograms a and b, putting the result in the receiver.
func (D *Data) Add(a, b *Data) {
	D.dividers = a.CopyDividers(D.dividers)
	if len(a.dividers) != len(b.dividers) {
		panic("histo.Data.Add: ill-formed histograms for addition")
	}
	for i, v := range a.dividers {
		if v != b.dividers[i] {
			panic("histo.Data.Add: dividers must match in added histograms")
		}
		if i == len(a.dividers)-1 {
			break
		}
		D.histo[i] = a.histo[i] + b.histo[i]
	}
}

// Sub subtracts histogram b from a, putting the result in the receiver.
// If abs is given and true, the absolute value of the difference is kept.
func (D *Data) Sub(a, b *Data, abs ...bool) {
	f := func(x float64) float64 { return x }
	if len(abs) > 0 && abs[0] {
		f = math.Abs
	}
	D.dividers = a.CopyDividers(D.dividers)
	if len(a.dividers) != len(b.dividers) {
		panic("histo.Data.Sub: ill-formed histograms for subtraction")
	}
	for i, v := range a.dividers {
		if v != b.dividers[i] {
			panic("histo.Data.Sub: dividers must match in subtracted histograms")
		}
		if i == len(a.dividers)-1 {
			break
		}
		D.histo[i] = f(a.histo[i] - b.histo[i])
	}
}

// Sum returns the sum of the histogram's bucket values.
func (D *Data) Sum() float64 { return floats.Sum(D.histo) }

// ReHisto rebuilds the histogram from scratch using dividers and rawdata.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	if rawdata != nil {
		sort.Float64s(rawdata)
		maxi := sort.SearchFloat64s(rawdata, dividers[len(dividers)-1])
		mini := sort.SearchFloat64s(rawdata, dividers[0])
		if maxi < len(rawdata) {
			rawdata = rawdata[:maxi]
		}
		if mini != 0 {
			rawdata = rawdata[mini:]
		}
	}
	D.total = len(rawdata)
	D.histo = stat.Histogram(nil, dividers, rawdata, nil)
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= N {
		d = dest[0]
		if len(dest[0]) > N {
			d = dest[0][:N]
		}
	} else {
		d = make([]float64, N)
	}
	return d
}
