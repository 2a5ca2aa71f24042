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

package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	assert.Equal(t, uint64(1024), p.PrecisionDivisor)
	assert.Equal(t, 2, p.SubsetRatio)
	assert.Equal(t, 4e-3, p.SecondsPerEval)
	assert.Equal(t, 7, p.MinSamplesPerEval)
	assert.Equal(t, 64, p.MinModeSamples)
	assert.Equal(t, 0.002, p.TargetRelMAD)
	assert.Equal(t, 9, p.MaxEvals)
	assert.False(t, p.Verbose)
	assert.Equal(t, int64(0), p.Seed)
	assert.NoError(t, p.validate(1))
}

func TestValidateRejectsBadParams(t *testing.T) {
	tests := []struct {
		testName  string
		mutate    func(p *Params)
		numInputs int
	}{
		{testName: "no_inputs", mutate: func(p *Params) {}, numInputs: 0},
		{testName: "subset_ratio_one", mutate: func(p *Params) { p.SubsetRatio = 1 }, numInputs: 4},
		{testName: "subset_ratio_zero", mutate: func(p *Params) { p.SubsetRatio = 0 }, numInputs: 4},
		{testName: "zero_precision_divisor", mutate: func(p *Params) { p.PrecisionDivisor = 0 }, numInputs: 4},
		{testName: "negative_seconds", mutate: func(p *Params) { p.SecondsPerEval = -1 }, numInputs: 4},
		{testName: "zero_min_samples", mutate: func(p *Params) { p.MinSamplesPerEval = 0 }, numInputs: 4},
		{testName: "zero_mode_samples", mutate: func(p *Params) { p.MinModeSamples = 0 }, numInputs: 4},
		{testName: "zero_target", mutate: func(p *Params) { p.TargetRelMAD = 0 }, numInputs: 4},
		{testName: "zero_max_evals", mutate: func(p *Params) { p.MaxEvals = 0 }, numInputs: 4},
	}

	for _, test := range tests {
		t.Run(test.testName, func(t *testing.T) {
			p := DefaultParams()
			test.mutate(&p)

			err := p.validate(test.numInputs)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestTickFloor(t *testing.T) {
	// 4096 ticks of overhead at divisor 1024 leave a 4-tick budget.
	assert.Equal(t, 4.0, tickFloor(4096, 1024))

	// The floor never drops below one tick.
	assert.Equal(t, 1.0, tickFloor(40, 1024))
}
