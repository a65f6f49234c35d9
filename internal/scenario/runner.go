package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haltridge/epicast/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0644
)

// Run generates a synthetic input record per cfg and writes it to
// cfg.OutputFile as ProgramInput JSON, ready for loader.Load.
func Run(ctx context.Context, cfg *Config) error {
	start := time.Now()

	logger.Get().Info(ctx, "starting scenario generation",
		logger.String("state", cfg.State),
		logger.Int("days", cfg.Days),
		logger.Int("population", cfg.Population),
		logger.Int("workers", cfg.Workers),
		logger.String("mode", cfg.Mode))

	input, err := Generate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("scenario generation failed: %w", err)
	}

	if err := saveInputToFile(ctx, cfg.OutputFile, input); err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}

	logger.Get().Info(ctx, "scenario generation complete",
		logger.String("output_file", cfg.OutputFile),
		logger.String("duration", time.Since(start).String()))
	return nil
}

func saveInputToFile(ctx context.Context, filename string, input any) error {
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "scenario_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	encoded, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := os.WriteFile(filename, encoded, filePermission); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	logger.Get().Info(ctx, "scenario written to file", logger.String("filename", filename))
	return nil
}
