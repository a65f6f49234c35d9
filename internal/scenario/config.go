package scenario

import "time"

// Config holds the parameters for generating a synthetic input record.
type Config struct {
	State              string        // State key the generated record targets
	Days               int           // Number of days of history to generate
	Population         int           // Raw (unscaled) population
	PopulationScale    int           // population_scale field of the generated record
	Workers            int           // Number of concurrent workers generating daily history
	ContactProbability float64       // contact_probability field of the generated record
	RunCount           int           // run_count field of the generated record
	Mode               string        // "simulate" or "find_contact_prob"
	OutputFile         string        // Where to write the generated ProgramInput JSON
	LogFile            string        // Log file for generator output
	Verbose            bool          // Enable verbose logging
	Timeout            time.Duration // Overall generation timeout
}
