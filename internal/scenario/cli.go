package scenario

import (
	"fmt"
	"os"

	"github.com/haltridge/epicast/pkg/logger"
)

// SetupLogging configures the global logger for the generator CLI.
func SetupLogging() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the scenario generator.
func ShowHelp() {
	os.Stdout.WriteString(`Epicast Scenario Generator
==========================

Generates a synthetic epidemiological input record for local testing of
the epicast driver, without needing a real historical dataset.

Usage:
  go run cmd/genscenario/main.go [options]

Options:
  -state string
        State key to generate history for (default "CA")
  -days int
        Number of days of history to generate (default 120)
  -population int
        Raw (unscaled) population size (default 1000000)
  -scale int
        population_scale field of the generated record (default 100)
  -workers int
        Number of concurrent workers generating daily history (default CPU cores)
  -contact-probability float
        contact_probability field of the generated record (default 1.5)
  -run-count int
        run_count field of the generated record (default 10)
  -mode string
        "simulate" or "find_contact_prob" (default "simulate")
  -output string
        Output file for the generated record (default: scenario_TIMESTAMP.json)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate a 6-month scenario for a default synthetic state
  go run cmd/genscenario/main.go -days 180

  # Generate a contact-probability search scenario
  go run cmd/genscenario/main.go -mode find_contact_prob -output /tmp/input_data.json
`)
}
