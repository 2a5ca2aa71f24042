/*
 * MIT License
 *
 * Copyright (c) 2023 EASL and the vHive community
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package benchmark measures the duration of short, single-argument
// functions in CPU ticks under realistic branch prediction conditions.
//
// Ordinary microbenchmarks repeat a function with one fixed argument and
// divide the elapsed time by the repetition count. The repeated argument
// leaves the branch predictor with a perfect record of the function's
// branches, so branch-heavy code appears faster than it ever runs in
// production. This engine instead shuffles the caller's input distribution
// and brackets every call with fenced counter reads, then summarizes the
// noisy per-input samples with the half-sample mode, an estimator robust to
// outliers and skew.
//
// Measurement runs entirely on the calling goroutine and returns one Result
// per distinct input value. Callers benchmarking on a busy machine should
// consider common.PinToCPU first.
package benchmark

import (
	"math/rand"
	"time"
)

// FuncInput is the argument of the function under measurement, for example
// a byte count. Its value may influence the function's branches, so the
// multiset of inputs passed to Measure should mirror the distribution seen
// in production.
type FuncInput uint64

// FuncOutput is the proof of work the measured function must return so that
// the call cannot be optimized away.
type FuncOutput uint64

// Func is the function under measurement. arg is an opaque caller-supplied
// value passed through unchanged on every call.
type Func func(arg interface{}, input FuncInput) FuncOutput

// Result summarizes all duration samples collected for one distinct input.
type Result struct {
	Input FuncInput

	// Ticks is the robust center (half-sample mode, or median when samples
	// are scarce) of the duration samples, in units of the cycle counter.
	Ticks float64

	// Variability is the median absolute deviation of the samples relative
	// to Ticks. Values above Params.TargetRelMAD signal that the run hit
	// MaxEvals before converging.
	Variability float64
}

// Measure benchmarks f over the given input distribution and returns one
// Result per distinct input value, sorted by ascending input. The returned
// slice is freshly allocated and not retained by the engine.
//
// inputs is a multiset: a value's frequency should reflect its probability
// in the real application, and order does not matter. A uniform distribution
// over [0, 4) can be given as {3, 0, 2, 1}.
//
// Measure returns ErrInvalidParams before invoking f if p or inputs are
// malformed, and ErrTimerUnavailable if the cycle counter has no usable
// resolution. Failing to reach p.TargetRelMAD within p.MaxEvals rounds is
// not an error; it shows up as elevated Variability.
func Measure(f Func, arg interface{}, inputs []FuncInput, p Params) ([]Result, error) {
	if err := p.validate(len(inputs)); err != nil {
		return nil, err
	}

	overhead, err := calibrateOverhead()
	if err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	m := newMeasurement(f, arg, newSampler(inputs, p.SubsetRatio, rng), &p, overhead)
	m.run()

	return m.results(), nil
}

// MeasureClosure is Measure for closures: f needs no opaque argument because
// it can capture whatever state it requires.
func MeasureClosure(f func(input FuncInput) FuncOutput, inputs []FuncInput, p Params) ([]Result, error) {
	return Measure(callClosure, f, inputs, p)
}

// callClosure is the trampoline between the two-argument Func shape and a
// capturing closure carried as the opaque argument.
func callClosure(arg interface{}, input FuncInput) FuncOutput {
	return arg.(func(input FuncInput) FuncOutput)(input)
}
