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
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams reports a malformed Params or an empty input
	// distribution. The function under measurement is never invoked.
	ErrInvalidParams = errors.New("invalid measurement parameters")

	// ErrTimerUnavailable reports that calibration could not establish a
	// finite, non-zero timer overhead, so no meaningful measurement is
	// possible on this platform.
	ErrTimerUnavailable = errors.New("timer resolution unavailable")
)

// Params determine the precision, resolution and duration of one
// measurement call. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	// PrecisionDivisor divides the calibrated timer overhead to obtain the
	// per-call tick budget that sizes repetition counts. Larger values mean
	// more calls per round and higher precision.
	PrecisionDivisor uint64

	// SubsetRatio is the size ratio between the full input distribution and
	// the subset used for exploratory rounds. Cannot be less than 2; larger
	// values make exploratory rounds cheaper but less faithful to the full
	// distribution.
	SubsetRatio int

	// SecondsPerEval is the wall-time budget of one adaptive round.
	// Together with the estimated per-call duration it determines how many
	// times the input sequence is replayed before variability is checked.
	SecondsPerEval float64

	// MinSamplesPerEval is the minimum number of raw samples required
	// before any central-tendency estimate is attempted.
	MinSamplesPerEval int

	// MinModeSamples is the per-input sample count below which the median
	// is used instead of the half-sample mode. The mode handles skewed and
	// fat-tailed distributions better, but needs enough samples relative to
	// the width of its half-ranges.
	MinModeSamples int

	// TargetRelMAD is the convergence threshold on relative variability
	// (median absolute deviation / center).
	TargetRelMAD float64

	// MaxEvals caps the number of adaptive rounds so a jittery function
	// cannot hang the measurement. Hitting the cap is not an error; it
	// surfaces as Variability above TargetRelMAD.
	MaxEvals int

	// Verbose raises per-round diagnostics from debug to info level.
	Verbose bool

	// Seed seeds the input shuffles. Zero reseeds from the clock on every
	// call for run-to-run realism; any fixed value makes the shuffle order
	// reproducible.
	Seed int64
}

// DefaultParams returns the documented defaults, tuned for roughly 0.2%
// precision on functions in the tens-to-thousands of cycles range.
func DefaultParams() Params {
	return Params{
		PrecisionDivisor:  1024,
		SubsetRatio:       2,
		SecondsPerEval:    4e-3,
		MinSamplesPerEval: 7,
		MinModeSamples:    64,
		TargetRelMAD:      0.002,
		MaxEvals:          9,
		Verbose:           false,
		Seed:              0,
	}
}

func (p *Params) validate(numInputs int) error {
	switch {
	case numInputs == 0:
		return fmt.Errorf("%w: empty input distribution", ErrInvalidParams)
	case p.SubsetRatio < 2:
		return fmt.Errorf("%w: SubsetRatio %d < 2", ErrInvalidParams, p.SubsetRatio)
	case p.PrecisionDivisor == 0:
		return fmt.Errorf("%w: PrecisionDivisor must be positive", ErrInvalidParams)
	case p.SecondsPerEval <= 0:
		return fmt.Errorf("%w: SecondsPerEval %g must be positive", ErrInvalidParams, p.SecondsPerEval)
	case p.MinSamplesPerEval <= 0:
		return fmt.Errorf("%w: MinSamplesPerEval must be positive", ErrInvalidParams)
	case p.MinModeSamples <= 0:
		return fmt.Errorf("%w: MinModeSamples must be positive", ErrInvalidParams)
	case p.TargetRelMAD <= 0:
		return fmt.Errorf("%w: TargetRelMAD %g must be positive", ErrInvalidParams, p.TargetRelMAD)
	case p.MaxEvals <= 0:
		return fmt.Errorf("%w: MaxEvals must be positive", ErrInvalidParams)
	}

	return nil
}
