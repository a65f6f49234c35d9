package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/haltridge/epicast/internal/scenario"
)

// Default configuration constants.
const (
	defaultDays               = 120
	defaultPopulation         = 1000000
	defaultPopulationScale    = 100
	defaultContactProbability = 1.5
	defaultRunCount           = 10
	defaultGenerateTimeout    = 5 * time.Minute
)

func main() {
	var (
		state              = flag.String("state", "CA", "State key to generate history for")
		days               = flag.Int("days", defaultDays, "Number of days of history to generate")
		population         = flag.Int("population", defaultPopulation, "Raw (unscaled) population size")
		scale              = flag.Int("scale", defaultPopulationScale, "population_scale field of the generated record")
		workers            = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers generating daily history")
		contactProbability = flag.Float64("contact-probability", defaultContactProbability, "contact_probability field of the generated record")
		runCount           = flag.Int("run-count", defaultRunCount, "run_count field of the generated record")
		mode               = flag.String("mode", "simulate", `"simulate" or "find_contact_prob"`)
		outputFile         = flag.String("output", "", "Output file for the generated record")
		verbose            = flag.Bool("verbose", false, "Enable verbose logging")
		help               = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		scenario.ShowHelp()
		return
	}

	if err := scenario.SetupLogging(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultGenerateTimeout)
	defer cancel()

	cfg := &scenario.Config{
		State:              *state,
		Days:               *days,
		Population:         *population,
		PopulationScale:    *scale,
		Workers:            *workers,
		ContactProbability: *contactProbability,
		RunCount:           *runCount,
		Mode:               *mode,
		OutputFile:         *outputFile,
		Verbose:            *verbose,
		Timeout:            defaultGenerateTimeout,
	}

	if err := scenario.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Scenario generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
