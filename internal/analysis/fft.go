package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform; len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude of bins 0..n/2 of a series whose
// length is a power of two.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	if len(fft) < 2 {
		return nil
	}
	ps := make([]float64, len(fft)/2+1)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// Spectrum removes the mean from series, zero-pads it to a power of two
// and returns its power spectrum along with the padded length.
func Spectrum(series []float64) ([]float64, int) {
	if len(series) < 2 {
		return nil, 0
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	n := 1
	for n < len(series) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}
	return PowerSpectrum(padded), n
}

// DominantPeriod returns the period, in generations, of the strongest
// non-constant component of series. A flat series has period 0.
func DominantPeriod(series []float64) (period, power float64) {
	ps, n := Spectrum(series)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > power+1e-9 {
			power = ps[k]
			best = k
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(n) / float64(best), power
}
