// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ag-ppr CLI.
// Implements: prd001-scraping, prd002-extraction, prd003-enhancement,
//             prd004-question-bank (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/extract"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, the secret value for key otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the ag-ppr CLI.
var rootCmd = &cobra.Command{
	Use:   "ag-ppr",
	Short: "Scrape exam papers and extract exam questions",
	Long: `ag-ppr collects academic exam papers from the web and mines them for exam
questions. Papers are discovered through fixed search sources and downloaded
as PDFs; questions matching a topic are extracted from the PDF text,
optionally refined through an OpenAI-compatible model, and collected into a
searchable question bank.

Each stage is a subcommand: scrape, extract, pipeline, and bank.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}

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
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ag-ppr.yaml or ~/.config/ag-ppr/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ag-ppr")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ag-ppr"))
		}
	}

	viper.SetDefault("scrape.dir", filepath.Join("data", "raw_papers"))
	viper.SetDefault("scrape.delay", time.Second)
	viper.SetDefault("scrape.search_timeout", 10*time.Second)
	viper.SetDefault("scrape.download_timeout", 30*time.Second)
	viper.SetDefault("scrape.max_per_source", 5)
	viper.SetDefault("extract.expansions", extract.DefaultExpansions())
	viper.SetDefault("enhance.model", "gpt-4o-mini")
	viper.SetDefault("enhance.base_url", "")
	viper.SetDefault("enhance.delay", 500*time.Millisecond)
	viper.SetDefault("enhance.timeout", 30*time.Second)
	viper.SetDefault("bank.db", filepath.Join("data", "index", "questions.db"))
	viper.SetDefault("bank.dir", "outputs")

	viper.SetEnvPrefix("AG_PPR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
