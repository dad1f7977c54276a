package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spigell/hire-agent/internal/ai/providers"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the LLM the agents would use",
	RunE: func(_ *cobra.Command, _ []string) error {
		if version == "unknown" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
		}

		config, err := getConfig()
		if err != nil {
			return fmt.Errorf("getting a config: %w", err)
		}

		llm := providers.Config{Provider: config.LLM.Provider, Model: config.LLM.Model}.Normalized()

		fmt.Printf("%s version: %s\n", app, version)
		fmt.Printf("provider: %s\nmodel: %s\n", llm.Provider, llm.Model)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
