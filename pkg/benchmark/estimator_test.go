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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeOfSortedNarrowsToDensestRegion(t *testing.T) {
	samples := []float64{10, 11, 12, 12, 12, 13, 50, 60, 70, 80}
	sort.Float64s(samples)

	assert.Equal(t, 12.0, modeOfSorted(samples))
}

func TestModeOfSortedTinyInputs(t *testing.T) {
	assert.Equal(t, 7.0, modeOfSorted([]float64{7}))
	assert.Equal(t, 8.0, modeOfSorted([]float64{7, 9}))
}

func TestEstimateResistsOutliers(t *testing.T) {
	// 95 samples at 100 and 5 at 100000: a mean lands near 5095, the
	// half-sample mode must stay at the dense cluster.
	samples := make([]float64, 0, 100)
	for i := 0; i < 95; i++ {
		samples = append(samples, 100)
	}
	for i := 0; i < 5; i++ {
		samples = append(samples, 100000)
	}

	est := estimateSamples(samples, 64)

	assert.InDelta(t, 100, est.center, 1)
	assert.Equal(t, 0.0, est.relMAD)
}

func TestEstimateMedianFallback(t *testing.T) {
	// Below the mode threshold the median is used.
	est := estimateSamples([]float64{1, 2, 3, 4, 100}, 64)

	assert.Equal(t, 3.0, est.center)
	assert.Equal(t, 1.0/3.0, est.relMAD)
}

func TestEstimateConstantSamples(t *testing.T) {
	est := estimateSamples([]float64{42, 42, 42, 42, 42, 42, 42}, 4)

	assert.Equal(t, 42.0, est.center)
	assert.Equal(t, 0.0, est.relMAD)
}

func TestEstimateNearZeroCenter(t *testing.T) {
	// A zero center must not divide: the raw MAD is reported instead.
	est := estimateSamples([]float64{0, 0, 0, 0, 0}, 64)

	assert.Equal(t, 0.0, est.center)
	assert.Equal(t, 0.0, est.relMAD)
	assert.False(t, est.relMAD < 0)
}

func TestEstimateSkewedDistribution(t *testing.T) {
	// Right-skewed samples: the mode should land below the mean.
	samples := make([]float64, 0, 128)
	for i := 0; i < 100; i++ {
		samples = append(samples, 100+float64(i%3))
	}
	for i := 0; i < 28; i++ {
		samples = append(samples, 200+float64(i*50))
	}

	est := estimateSamples(samples, 64)

	assert.Less(t, est.center, 110.0)
	assert.GreaterOrEqual(t, est.center, 100.0)
	assert.GreaterOrEqual(t, est.relMAD, 0.0)
}
