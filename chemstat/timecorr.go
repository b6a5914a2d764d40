// Package chemstat provides FFT-based time-correlation functions. The
// original gochem package only ever autocorrelated real-valued MD
// observables (RMSD time series and similar); here the same zero-pad /
// forward-FFT / conjugate-multiply / inverse-FFT dance is generalized to
// complex-valued series, since the scattering engine's per-frame
// amplitudes are complex, so the reduce package's FFT correlation path
// can call straight into this package instead of re-deriving the FFT
// plumbing itself.
package chemstat

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

func cmplxMulConj(dst, b []complex128) {
	if len(dst) != len(b) {
		panic(fmt.Sprintf("complex conjugate multiplication of slices: both slices should have the same len %d, %d", len(dst), len(b)))
	}
	for i, v := range b {
		dst[i] *= cmplx.Conj(v)
	}
}

func cmplxRealScale(dst []complex128, sc float64) {
	for i, v := range dst {
		dst[i] = v * complex(sc, 0)
	}
}

// meanComplex returns the mean of a complex128 series.
func meanComplex(c []complex128) complex128 {
	if len(c) == 0 {
		return 0
	}
	re := make([]float64, len(c))
	im := make([]float64, len(c))
	for i, v := range c {
		re[i] = real(v)
		im[i] = imag(v)
	}
	return complex(stat.Mean(re, nil), stat.Mean(im, nil))
}

// FFTCorrelate computes the biased autocorrelation
// c(tau) = (1/(NF-tau)) * sum_{k=0}^{NF-tau-1} conj(series[k]-mu) * (series[k+tau]-mu)
// for tau = 0..NF-1, via zero-padding to 2*NF, a forward FFT, pointwise
// conjugate multiplication, an inverse FFT, and per-lag division by
// (NF-tau). When zeroMean is false, mu is taken as 0 instead of the
// series mean.
func FFTCorrelate(series []complex128, zeroMean bool) []complex128 {
	nf := len(series)
	if nf == 0 {
		return nil
	}
	mu := complex(0, 0)
	if zeroMean {
		mu = meanComplex(series)
	}
	padded := make([]complex128, 2*nf)
	for i, v := range series {
		padded[i] = v - mu
	}
	f := fourier.NewCmplxFFT(len(padded))
	f.Coefficients(padded, padded)
	cmplxMulConj(padded, padded)
	f.Sequence(padded, padded)
	cmplxRealScale(padded, 1.0/float64(len(padded)))

	out := make([]complex128, nf)
	for tau := 0; tau < nf; tau++ {
		denom := nf - tau
		if denom == 0 {
			out[tau] = 0
			continue
		}
		out[tau] = padded[tau] / complex(float64(denom), 0)
	}
	return out
}
