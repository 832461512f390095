package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/market-sim/internal/config"
)

const sampleConfigName = "market-sim-config.yaml"

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Write the config JSON schema and a sample config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Output directory",
				Value:   "./config",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir := cmd.String("dir")

			if err := generateSchemaFile(config.Default(), filepath.Join(dir, config.SchemaFileName)); err != nil {
				return err
			}

			written, err := writeSampleConfig(config.Default(), filepath.Join(dir, sampleConfigName))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "Schema generated at %s\n", filepath.Join(dir, config.SchemaFileName))

			if written {
				fmt.Fprintf(cmd.Root().Writer, "Sample config generated at %s\n", filepath.Join(dir, sampleConfigName))
			}

			return nil
		},
	}
}

// generateSchemaFile writes the config schema to path, creating parent directories.
func generateSchemaFile(cfg config.Config, path string) error {
	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(schemaJSON), 0o644); err != nil { //nolint:gosec // schema is public
		return fmt.Errorf("failed to write schema: %w", err)
	}

	return nil
}

// writeSampleConfig writes cfg as YAML unless path already exists.
func writeSampleConfig(cfg config.Config, path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat sample config: %w", err)
	}

	body, err := config.SampleYAML(cfg)
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil { //nolint:gosec // sample config is public
		return false, fmt.Errorf("failed to write sample config: %w", err)
	}

	return true, nil
}
