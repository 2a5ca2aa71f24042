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
	"fmt"
	"math"
	"sort"

	"github.com/vhive-serverless/nanobench/pkg/timer"
)

// timerSamples readings per repetition, and as many repetitions. The nested
// sampling is quadratic, but it runs once per measurement call and 256 is
// small enough that the cost stays in the microsecond range.
const timerSamples = 256

// calibrateOverhead bounds the self-overhead of one Start/Stop bracket in
// ticks. The raw minimum over a batch would understate the true overhead
// whenever a single delta gets lucky, so each batch is summarized with the
// half-sample mode and the per-batch modes are summarized the same way.
func calibrateOverhead() (float64, error) {
	batchModes := make([]float64, timerSamples)
	deltas := make([]float64, timerSamples)

	for rep := range batchModes {
		for i := range deltas {
			t0 := timer.Start()
			t1 := timer.Stop()

			if t1 <= t0 {
				deltas[i] = 0
				continue
			}
			deltas[i] = float64(t1 - t0)
		}

		sort.Float64s(deltas)
		batchModes[rep] = modeOfSorted(deltas)
	}

	sort.Float64s(batchModes)
	overhead := modeOfSorted(batchModes)

	if overhead <= 0 || math.IsInf(overhead, 0) || math.IsNaN(overhead) {
		return 0, fmt.Errorf("%w: measured bracket overhead %g ticks", ErrTimerUnavailable, overhead)
	}

	return overhead, nil
}

// tickFloor converts the calibrated overhead into the smallest per-call
// duration estimate the first round may assume. A larger divisor demands
// finer resolution, which the measurement loop turns into more repetitions.
func tickFloor(overhead float64, precisionDivisor uint64) float64 {
	floor := overhead / float64(precisionDivisor)
	if floor < 1 {
		floor = 1
	}
	return floor
}
