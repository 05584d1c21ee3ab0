package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/kotoba/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Kotoba configuration",
	Long: `Manage Kotoba configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (KOTOBA_*, e.g. KOTOBA_POLICY_KANJI_FAILURE=sentinel)
3. Config file (~/.kotoba/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults and environment)\n\n")
		}

		return writeConfigYAML(cmd.OutOrStdout(), cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Create ~/.kotoba/config.yaml (or the --config path) with every option set to its default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("find home directory: %w", err)
			}
			configPath = filepath.Join(home, ".kotoba", "config.yaml")
		}

		if err := initConfigFile(configPath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(cmd.OutOrStdout(), "\nTo view the effective configuration:\n  kotoba config show\n")
		return nil
	},
}

func writeConfigYAML(w io.Writer, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// initConfigFile refuses to overwrite an existing file
func initConfigFile(path string) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'kotoba config show' to view it, or delete it first to recreate", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	header := `# Kotoba configuration
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (KOTOBA_*, nested keys joined with "_")
#   3. This config file
#   4. Built-in defaults
#
# policy.kanji_failure:
#   fail      abort the run when a kanji lookup fails (default)
#   sentinel  keep a "lookup failed" row and continue

`
	if _, err := io.WriteString(f, header); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := writeConfigYAML(f, model.DefaultConfig()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	footer := `
# API keys are read from the environment, never from this file:
#   export KOTOBA_LLM_API_KEY=sk-...   (or OPENAI_API_KEY)
#   export OLLAMA_BASE_URL=http://localhost:11434
`
	if _, err := io.WriteString(f, footer); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
