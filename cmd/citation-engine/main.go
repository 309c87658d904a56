// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-engine CLI.
// Implements: prd001-document-model through prd008-session (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the citation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-engine",
	Short: "Citation consistency and change reconciliation for edited documents",
	Long: `citation-engine keeps in-text citation markers, a reference list, and a
human-auditable change history mutually consistent as a document is edited.

Load an extracted document into a session, then run whole-document operations
against it: resequence renumbers references into first-appearance order,
convert rewrites markers and reference formatting between citation styles,
and delete-ref removes a reference while keeping orphaned citations visible.
Every operation reports what changed relative to the document as first
loaded; export materializes the result as accepted text or with tracked
changes.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-engine.yaml or ~/.config/citation-engine/config.yaml)")
	rootCmd.PersistentFlags().String("session-dir", "", "base directory for session state (default: sessions)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-engine"))
		}
	}

	viper.SetEnvPrefix("CITATION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles configuration from the config file, environment,
// and flags, applying defaults for anything unset.
func engineConfig(cmd *cobra.Command) types.EngineConfig {
	var cfg types.EngineConfig
	_ = viper.Unmarshal(&cfg)

	if dir, _ := cmd.Flags().GetString("session-dir"); dir != "" {
		cfg.Session.SessionDir = dir
	}
	if cfg.Session.SessionDir == "" {
		cfg.Session.SessionDir = "sessions"
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "output"
	}
	if cfg.Poll.BaseDelay <= 0 {
		cfg.Poll.BaseDelay = time.Second
	}
	if cfg.Poll.MaxAttempts <= 0 {
		cfg.Poll.MaxAttempts = 5
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
