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

	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/nanobench/pkg/common"
	"github.com/vhive-serverless/nanobench/pkg/timer"
)

// measurement is the state of one adaptive measurement call. Everything here
// is owned by the calling goroutine; nothing is shared between calls.
type measurement struct {
	f   Func
	arg interface{}
	p   *Params

	sampler  *sampler
	overhead float64

	// samples accumulates duration samples per distinct input across all
	// rounds; earlier rounds are never discarded.
	samples map[FuncInput][]float64

	// estimates holds the latest per-input summaries, refreshed on every
	// convergence check and reused when materializing results.
	estimates map[FuncInput]estimate

	// perCallTicks is the running estimate of one call's raw bracket cost,
	// used to size the next round's repetition count.
	perCallTicks float64

	// sink accumulates the proof-of-work outputs so no call can be elided.
	sink FuncOutput

	converged bool
}

func newMeasurement(f Func, arg interface{}, s *sampler, p *Params, overhead float64) *measurement {
	return &measurement{
		f:            f,
		arg:          arg,
		p:            p,
		sampler:      s,
		overhead:     overhead,
		samples:      make(map[FuncInput][]float64, len(s.unique)),
		estimates:    make(map[FuncInput]estimate, len(s.unique)),
		perCallTicks: tickFloor(overhead, p.PrecisionDivisor) + overhead,
	}
}

// run executes adaptive rounds until the worst per-input relative MAD drops
// to the target or MaxEvals rounds have been spent. Reaching the cap is not
// a failure; the accumulated samples still yield a usable, if noisier,
// estimate.
func (m *measurement) run() {
	logf := log.Debugf
	if m.p.Verbose {
		logf = log.Infof
	}

	ticksPerEval := m.p.SecondsPerEval * timer.CyclesPerSecond()
	totalSamples := 0

	for eval := 0; eval < m.p.MaxEvals; eval++ {
		// Exploratory rounds replay the cheaper subset sequence until there
		// is enough data for a first estimate. The last round always walks
		// the full sequence so every distinct value is covered even when
		// the subset dropped it.
		seq := m.sampler.full
		if totalSamples < m.p.MinSamplesPerEval && eval < m.p.MaxEvals-1 {
			seq = m.sampler.subset
		}

		reps := m.repetitions(ticksPerEval, len(seq))
		logf("eval %d: %d passes over %d inputs (per-call estimate %.1f ticks)",
			eval, reps, len(seq), m.perCallTicks)

		totalSamples += m.measureRound(seq, reps, ticksPerEval)

		if totalSamples < m.p.MinSamplesPerEval {
			continue
		}

		worst, covered := m.refreshEstimates()
		logf("eval %d: %d samples, worst relative MAD %.4f (target %.4f)",
			eval, totalSamples, worst, m.p.TargetRelMAD)

		if covered && worst <= m.p.TargetRelMAD {
			m.converged = true
			break
		}
	}

	if !m.converged {
		logf("no convergence within %d evals; variability stays elevated", m.p.MaxEvals)
	}

	// Consuming the accumulator here keeps the calls observable.
	log.Tracef("proof-of-work accumulator: %d", m.sink)
}

// repetitions sizes a round so that reps passes over a seqLen-element
// sequence cost roughly the per-eval tick budget at the current per-call
// estimate.
func (m *measurement) repetitions(ticksPerEval float64, seqLen int) int {
	reps := int(ticksPerEval / (m.perCallTicks * float64(seqLen)))
	return common.MaxOf(1, reps)
}

// measureRound performs up to reps bracketed passes over seq, grouping
// durations by input value, and updates the per-call cost estimate from
// what it saw. When the sizing estimate proves too low, the round stops
// at the first pass boundary past its tick budget; a pass itself is never
// cut short, so a full-sequence pass always covers every value. Returns
// the number of samples recorded.
func (m *measurement) measureRound(seq []FuncInput, reps int, budgetTicks float64) int {
	var (
		roundTicks float64
		recorded   int
	)

	for r := 0; r < reps && roundTicks < budgetTicks; r++ {
		for _, input := range seq {
			t0 := timer.Start()
			out := m.f(m.arg, input)
			t1 := timer.Stop()

			m.sink += out

			if t1 <= t0 {
				continue
			}
			raw := float64(t1 - t0)
			roundTicks += raw

			duration := raw - m.overhead
			if duration < 0 {
				duration = 0
			}
			m.samples[input] = append(m.samples[input], duration)
			recorded++
		}
	}

	if recorded > 0 {
		floor := tickFloor(m.overhead, m.p.PrecisionDivisor) + m.overhead
		m.perCallTicks = math.Max(floor, roundTicks/float64(recorded))
	}

	return recorded
}

// refreshEstimates recomputes the per-input summaries over all accumulated
// samples. It reports the worst relative MAD and whether every distinct
// input has been sampled at all.
func (m *measurement) refreshEstimates() (worst float64, covered bool) {
	covered = true

	for _, input := range m.sampler.unique {
		samples := m.samples[input]
		if len(samples) == 0 {
			covered = false
			continue
		}

		est := estimateSamples(samples, m.p.MinModeSamples)
		m.estimates[input] = est
		if est.relMAD > worst {
			worst = est.relMAD
		}
	}

	return worst, covered
}

// results materializes one Result per distinct input value, ascending by
// input. The slice is freshly allocated and the measurement keeps no
// reference to it.
func (m *measurement) results() []Result {
	out := make([]Result, 0, len(m.sampler.unique))

	for _, input := range m.sampler.unique {
		est, ok := m.estimates[input]
		if !ok {
			samples := m.samples[input]
			if len(samples) == 0 {
				// No bracket around this value ever produced a forward
				// delta; report zeros rather than poisoning the row.
				out = append(out, Result{Input: input})
				continue
			}
			// Convergence checks never ran for this value; summarize
			// whatever samples exist.
			est = estimateSamples(samples, m.p.MinModeSamples)
		}

		out = append(out, Result{
			Input:       input,
			Ticks:       est.center,
			Variability: est.relMAD,
		})
	}

	return out
}
