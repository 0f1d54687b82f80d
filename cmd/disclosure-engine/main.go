// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the disclosure-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/investore/disclosure-engine/internal/logger"
	"github.com/investore/disclosure-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the disclosure-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "disclosure-engine",
	Short: "Triage and fact extraction for exchange disclosures",
	Long: `disclosure-engine maintains a universe of listed mining companies, pulls
their exchange disclosures, classifies each announcement by type and priority,
and extracts JORC resource estimates from announcement titles into a local
SQLite database.

Each stage is a subcommand: universe refreshes the company list, run executes
the full pipeline, scan processes named symbols, extract parses titles offline,
and query reads back what has been stored.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		debug, _ := cmd.Flags().GetBool("debug")
		return logger.Initialize(logger.Config{Debug: debug})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./disclosure-engine.yaml or ~/.config/disclosure-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default data/disclosures.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("disclosure-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "disclosure-engine"))
		}
	}

	viper.SetEnvPrefix("DISCLOSURE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
