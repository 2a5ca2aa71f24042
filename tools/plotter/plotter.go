package main

import (
	"flag"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/vhive-serverless/nanobench/pkg/common"
	"github.com/vhive-serverless/nanobench/pkg/metric"
)

func main() {
	var (
		inputFile  = flag.String("i", "results.csv", "Path to the CSV file written by metric.Exporter")
		outputDir  = flag.String("o", "figs", "Path to the directory for output figures")
		debugLevel = flag.String("d", "info", "Debug level: info, debug")
	)
	flag.Parse()
	log.SetOutput(os.Stdout)

	switch *debugLevel {
	case "info":
		log.SetLevel(log.InfoLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
		log.Debug("Debug mode is enabled")
	}

	records := parseFile(*inputFile)
	log.Info("The number of result records is: ", len(records))

	plotFig(*outputDir, records)
}

func parseFile(path string) []metric.ResultRecord {
	f, err := os.Open(path)
	common.Check(err)
	defer f.Close()

	var records []metric.ResultRecord
	common.Check(gocsv.UnmarshalFile(f, &records))

	return records
}

// errPoints carries ticks per input together with absolute error bars
// derived from the relative variability.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

func plotFig(outputDir string, records []metric.ResultRecord) {
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		log.Info("Creating the output directory")
		common.Check(os.Mkdir(outputDir, os.ModePerm))
	}

	byRun := map[string][]metric.ResultRecord{}
	for _, rec := range records {
		byRun[rec.RunID] = append(byRun[rec.RunID], rec)
	}

	p := plot.New()
	p.Title.Text = "Measured duration per input"
	p.X.Label.Text = "Input"
	p.Y.Label.Text = "Ticks"
	p.Y.Min = 0

	i := 0
	for runID, runRecords := range byRun {
		sort.Slice(runRecords, func(a, b int) bool { return runRecords[a].Input < runRecords[b].Input })

		pts := errPoints{
			XYs:     make(plotter.XYs, len(runRecords)),
			YErrors: make(plotter.YErrors, len(runRecords)),
		}
		for j, rec := range runRecords {
			pts.XYs[j].X = float64(rec.Input)
			pts.XYs[j].Y = rec.Ticks
			spread := rec.Variability * rec.Ticks
			pts.YErrors[j].Low = spread
			pts.YErrors[j].High = spread
			log.Debug("Plotting ", rec.Input, " ", rec.Ticks, " ±", spread)
		}

		label := runRecords[0].Label
		if label == "" {
			label = runID
		}
		common.Check(plotutil.AddLinePoints(p, label, pts.XYs))

		bars, err := plotter.NewYErrorBars(pts)
		common.Check(err)
		bars.Color = plotutil.Color(i)
		p.Add(bars)
		i++
	}

	common.Check(p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(outputDir, "ticks_per_input.png")))
}
