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

// Package timer provides a monotonic cycle counter with fencing guarantees
// suitable for bracketing very short function calls. On amd64 it reads the
// TSC with LFENCE/RDTSCP ordering, on arm64 the virtual counter CNTVCT_EL0;
// elsewhere it falls back to the monotonic wall clock in nanoseconds.
package timer

import (
	"sort"
	"sync"
	"time"
)

// Start returns the current tick count. Earlier instructions are not allowed
// to drift past the read, so the measured region begins no sooner than the
// value returned here.
func Start() uint64 {
	return start()
}

// Stop returns the current tick count. The read does not complete before the
// measured region has retired, making Stop()-Start() a safe bracket.
func Stop() uint64 {
	return stop()
}

var (
	freqOnce sync.Once
	freqHz   float64
)

// CyclesPerSecond reports the tick frequency of the counter behind Start and
// Stop. On arm64 the hardware exposes it directly; on amd64 the TSC rate is
// calibrated once against the wall clock.
func CyclesPerSecond() float64 {
	freqOnce.Do(func() {
		if hz := counterFrequencyHz(); hz > 0 {
			freqHz = float64(hz)
			return
		}
		freqHz = calibrateFrequency()
	})
	return freqHz
}

// calibrateFrequency measures the counter against time.Now over a few short
// intervals and takes the median, which tolerates one descheduled interval.
func calibrateFrequency() float64 {
	const rounds = 3
	const interval = 10 * time.Millisecond

	rates := make([]float64, rounds)
	for i := range rates {
		wall := time.Now()
		c0 := start()
		time.Sleep(interval)
		c1 := stop()
		elapsed := time.Since(wall).Seconds()
		rates[i] = float64(c1-c0) / elapsed
	}
	sort.Float64s(rates)
	return rates[rounds/2]
}
