package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

// defaultUserAgent is sent on search and download requests. Some paper
// mirrors refuse requests with non-browser agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

func scrapeConfig() types.ScrapeConfig {
	return types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("scrape.search_timeout"),
			UserAgent: defaultUserAgent,
		},
		DownloadTimeout: viper.GetDuration("scrape.download_timeout"),
		DownloadDelay:   viper.GetDuration("scrape.delay"),
		PapersDir:       viper.GetString("scrape.dir"),
		MaxPerSource:    viper.GetInt("scrape.max_per_source"),
	}
}

func extractConfig() types.ExtractConfig {
	return types.ExtractConfig{
		Expansions: viper.GetStringMapStringSlice("extract.expansions"),
	}
}

// enhanceConfig assembles the enhancement configuration. The API key comes
// from the OPENAI_API_KEY environment variable or from .secrets/openai-api-key,
// with the environment taking precedence.
func enhanceConfig() types.EnhanceConfig {
	return types.EnhanceConfig{
		Model:     viper.GetString("enhance.model"),
		BaseURL:   viper.GetString("enhance.base_url"),
		APIKey:    secretDefault("openai-api-key", os.Getenv("OPENAI_API_KEY")),
		CallDelay: viper.GetDuration("enhance.delay"),
		Timeout:   viper.GetDuration("enhance.timeout"),
	}
}

// bankConfig assembles the question bank configuration. Flags override the
// configured paths when set.
func bankConfig(cmd *cobra.Command) types.BankConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("bank.db")
	}
	resultsDir, _ := cmd.Flags().GetString("dir")
	if resultsDir == "" {
		resultsDir = viper.GetString("bank.dir")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.BankConfig{
		DBPath:     dbPath,
		ResultsDir: resultsDir,
		MaxResults: maxResults,
	}
}
