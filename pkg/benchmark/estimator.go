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
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Centers below this many ticks are treated as zero when normalizing the
// median absolute deviation.
const centerEpsilon = 1e-9

// estimate is the robust summary of one sample set.
type estimate struct {
	center float64
	relMAD float64
}

// modeOfSorted computes the half-sample mode: repeatedly narrow to the
// contiguous half-width window with the smallest spread, then average the
// one or two samples that remain. Unlike the mean or median, the result is
// pulled toward the densest region of the distribution, which makes it
// robust to the long right tail of duration samples.
func modeOfSorted(sorted []float64) float64 {
	begin := 0
	count := len(sorted)

	for count > 2 {
		half := count / 2
		minWidth := math.Inf(1)
		minBegin := begin

		for m := begin; m+half <= begin+count; m++ {
			if width := sorted[m+half-1] - sorted[m]; width < minWidth {
				minWidth = width
				minBegin = m
			}
		}

		begin = minBegin
		count = half
	}

	return stat.Mean(sorted[begin:begin+count], nil)
}

// estimateSamples summarizes a nonempty sample set for one input value.
// With at least minModeSamples samples the center is the half-sample mode,
// otherwise the median: half-ranges over too few samples are dominated by a
// single lucky reading.
func estimateSamples(samples []float64, minModeSamples int) estimate {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	var center float64
	if len(sorted) >= minModeSamples {
		center = modeOfSorted(sorted)
	} else {
		center, _ = stats.Median(sorted)
	}

	deviations := make([]float64, len(sorted))
	for i, s := range sorted {
		deviations[i] = math.Abs(s - center)
	}
	mad, _ := stats.Median(deviations)

	// Dividing by a near-zero center would blow up the relative MAD, so the
	// raw MAD is reported instead.
	relMAD := mad
	if center > centerEpsilon {
		relMAD = mad / center
	}

	return estimate{center: center, relMAD: relMAD}
}
