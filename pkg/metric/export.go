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

// Package metric persists measurement results. The engine itself never
// writes anything; callers feed results into an Exporter and decide where
// the CSV goes.
package metric

import (
	"os"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/nanobench/pkg/benchmark"
	"github.com/vhive-serverless/nanobench/pkg/timer"
)

// Exporter collects result records from one or more measurement runs and
// writes them as CSV. Safe for use from multiple goroutines.
type Exporter struct {
	mutex   sync.Mutex
	records []ResultRecord
}

func NewExporter() *Exporter {
	return &Exporter{
		records: []ResultRecord{},
	}
}

// ReportResults appends one run's results under a fresh run ID and returns
// that ID. label is a free-form name for the function that was measured.
func (ep *Exporter) ReportResults(label string, results []benchmark.Result) string {
	runID := uuid.New().String()
	hz := timer.CyclesPerSecond()

	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	for _, r := range results {
		ep.records = append(ep.records, ResultRecord{
			RunID:           runID,
			Label:           label,
			Input:           uint64(r.Input),
			Ticks:           r.Ticks,
			Variability:     r.Variability,
			CyclesPerSecond: hz,
		})
	}

	log.Debugf("recorded %d results for %q under run %s", len(results), label, runID)

	return runID
}

// RecordLen reports how many rows have been collected so far.
func (ep *Exporter) RecordLen() int {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	return len(ep.records)
}

// WriteCSV saves all collected records to the given path.
func (ep *Exporter) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	return gocsv.MarshalFile(&ep.records, f)
}
