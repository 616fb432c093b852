package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gunzone/internal/config"
)

var flagConfigDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the game configuration as YAML after applying --config and
--difficulty. The output is a valid game.yaml to start a custom file from.

Examples:
  gunzone config > ~/.gunzone/configs/game.yaml
  gunzone config --difficulty hard
  gunzone config --defaults`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefaults, "defaults", false, "Print the embedded defaults verbatim")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigDefaults {
		fmt.Print(string(config.DefaultYAML()))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	logger.Debug("config digest", "digest", fmt.Sprintf("%016x", config.Digest(cfg)))
	return nil
}
