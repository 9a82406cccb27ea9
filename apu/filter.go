package apu

import "math"

// filter is a first-order IIR stage: y[n] = b0*x[n] + b1*x[n-1] - a1*y[n-1].
type filter struct {
	b0, b1, a1   float32
	prevX, prevY float32
}

func newLowPass(sampleRate, cutoff float32) filter {
	c := sampleRate / (cutoff * float32(math.Pi))
	a0 := 1.0 / (1.0 + c)
	return filter{b0: a0, b1: a0, a1: (1 - c) * a0}
}

func newHighPass(sampleRate, cutoff float32) filter {
	c := sampleRate / (cutoff * float32(math.Pi))
	a0 := 1.0 / (1.0 + c)
	return filter{b0: c * a0, b1: -c * a0, a1: (1 - c) * a0}
}

func (f *filter) apply(x float32) float32 {
	y := f.b0*x + f.b1*f.prevX - f.a1*f.prevY
	f.prevX = x
	f.prevY = y
	return y
}
