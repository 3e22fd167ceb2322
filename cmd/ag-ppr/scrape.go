package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/console"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape exam papers by subject and topic",
	Long: `Scrape searches a fixed set of academic sources for exam papers matching
a subject and topic, downloads candidate PDFs, and records a metadata sidecar
next to each file. Existing papers are skipped.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("subject", "", `subject area (e.g. "Mathematics")`)
	scrapeCmd.Flags().String("topic", "", `specific topic (e.g. "Linear Algebra")`)
	_ = scrapeCmd.MarkFlagRequired("subject")
	_ = scrapeCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	topic, _ := cmd.Flags().GetString("topic")

	fmt.Println(console.Linef(console.Info, "Starting scrape for subject: %s, topic: %s", subject, topic))

	scraper := scrape.New(scrapeConfig())
	result, err := scraper.ScrapeBatch(subject, topic, os.Stdout)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}

	files := result.Files()
	if len(files) > 0 {
		fmt.Println(console.Linef(console.Success, "Successfully downloaded %d papers:", len(files)))
		for _, f := range files {
			fmt.Printf("  - %s\n", f)
		}
	} else {
		fmt.Println(console.Line(console.Info, "No new papers were downloaded (may already exist)"))
	}

	if result.AllSearchesFailed() {
		return fmt.Errorf("scraping failed: all %d searches failed", result.Searched)
	}
	return nil
}
