package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"inatexport/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage inatexport configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (INATEXPORT_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created in the current directory as '.inatexport.yaml'
unless a different path is given with the --config flag.`,
	RunE: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration the fetch command would run with, after
merging defaults, the configuration file, and environment variables.`,
	RunE: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# inatexport configuration file
#
# Every option can also be set via environment variables prefixed with
# INATEXPORT_, e.g. INATEXPORT_SPECIES, INATEXPORT_DAYS_BACK.

fetch:
  # Species to export, by common or scientific name
  species:
    - leafy seadragon
    - weedy seadragon

  # How many days back to search
  days_back: 30

  # Restrict observations to a named place (optional)
  place: ""

  # Observations per API page (max 200)
  per_page: 200

  # HTTP request timeout
  request_timeout: 30s

export:
  # Output directory; photos go into a photos/ subdirectory
  output_dir: ./inat_data

  # Write an interactive review page instead of a CSV
  review: false

  # Constant values for the corresponding export columns (optional)
  location_id: ""
  submitter_id: ""

rate_limit:
  # Minimum time between two consecutive API requests
  delay: 1s

retry:
  # Attempts per page request before the run fails
  max_attempts: 3

logging:
  # debug, info, warn, error
  level: info

  # Write logs to a file instead of stderr (optional)
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".inatexport.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	fmt.Print(string(out))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	fmt.Println("Configuration is valid")
	return nil
}
