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
	"github.com/stretchr/testify/require"

	"github.com/vhive-serverless/nanobench/pkg/timer"
)

func TestCalibrateOverhead(t *testing.T) {
	overhead, err := calibrateOverhead()
	require.NoError(t, err)

	assert.Greater(t, overhead, 0.0)

	// An empty bracket must cost far less than a millisecond.
	assert.Less(t, overhead/timer.CyclesPerSecond(), 1e-3)
}

func TestRepetitionsSizing(t *testing.T) {
	m := &measurement{perCallTicks: 1000}

	// A 1M tick budget over a 10-element sequence at 1000 ticks per call
	// allows 100 passes.
	assert.Equal(t, 100, m.repetitions(1e6, 10))

	// The loop always makes at least one pass, even when a single call
	// blows the budget.
	assert.Equal(t, 1, m.repetitions(1, 10))
}
