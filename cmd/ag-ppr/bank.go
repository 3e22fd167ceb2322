// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/bank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank (ingest, search, export)",
	Long: `Bank manages a local SQLite question bank built from extraction result
files. Use subcommands to index results, query them, or export.`,
}

// --- ingest subcommand ---

var bankIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest extraction results into the question bank",
	Long: `Ingest reads extraction result JSON files from the outputs directory,
indexes their questions into a SQLite database with FTS5, and refreshes the
export file. Unchanged results are skipped on subsequent runs.`,
	RunE: runBankIngest,
}

func runBankIngest(cmd *cobra.Command, args []string) error {
	store, err := bank.NewStore(bankConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d result file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var bankSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Query the question bank with full-text search and filters",
	Long: `Search queries the question bank using FTS5 full-text search, structured
filters (subject, topic), or a combination of both.`,
	RunE: runBankSearch,
}

func runBankSearch(cmd *cobra.Command, args []string) error {
	store, err := bank.NewStore(bankConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := bankQueryOpts(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --subject, or --topic")
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []bank.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-14s  %-18s  %-60s  %s\n",
		"Rank", "Subject", "Topic", "Question", "Extracted")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 112))

	for i, r := range results {
		question := r.Question
		if len(question) > 60 {
			question = question[:57] + "..."
		}
		subject := r.Subject
		if len(subject) > 14 {
			subject = subject[:11] + "..."
		}
		topic := r.Topic
		if len(topic) > 18 {
			topic = topic[:15] + "..."
		}
		extracted := ""
		if !r.ExtractedAt.IsZero() {
			extracted = r.ExtractedAt.Format("2006-01-02")
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-14s  %-18s  %-60s  %s\n",
			i+1, subject, topic, question, extracted)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var bankExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the question bank to YAML or JSON",
	Long: `Export writes the full question bank (or a filtered subset) to a YAML or
JSON file. Supports the same filter flags as search for partial exports.`,
	RunE: runBankExport,
}

func runBankExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	store, err := bank.NewStore(bankConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := bankQueryOpts(cmd, args)

	switch format {
	case "yaml", "":
		if outPath == "" {
			outPath = store.DefaultExportPath("yaml")
		}
		if err := store.ExportYAML(context.Background(), opts, outPath); err != nil {
			return err
		}
	case "json":
		if outPath == "" {
			outPath = store.DefaultExportPath("json")
		}
		if err := store.ExportJSON(context.Background(), opts, outPath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Println("Exported to " + outPath)
	return nil
}

// --- shared helpers ---

func bankQueryOpts(cmd *cobra.Command, args []string) bank.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	subject, _ := cmd.Flags().GetString("subject")
	topic, _ := cmd.Flags().GetString("topic")
	limit, _ := cmd.Flags().GetInt("limit")

	return bank.QueryOptions{
		Query:      queryText,
		Subject:    subject,
		Topic:      topic,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	bankCmd.PersistentFlags().String("db", "", "question bank database path (default: data/index/questions.db)")
	bankCmd.PersistentFlags().String("dir", "", "directory of extraction results to ingest (default: outputs)")
	bankCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Search flags.
	bankSearchCmd.Flags().String("query", "", "full-text search query")
	bankSearchCmd.Flags().String("subject", "", "filter by subject")
	bankSearchCmd.Flags().String("topic", "", "filter by topic")
	bankSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	bankSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	bankExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	bankExportCmd.Flags().String("out", "", "output file path (default: alongside the database)")
	bankExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	bankExportCmd.Flags().String("subject", "", "filter by subject for partial export")
	bankExportCmd.Flags().String("topic", "", "filter by topic for partial export")
	bankExportCmd.Flags().Int("limit", 0, "maximum questions to export (0 = all)")

	// Wire subcommands.
	bankCmd.AddCommand(bankIngestCmd)
	bankCmd.AddCommand(bankSearchCmd)
	bankCmd.AddCommand(bankExportCmd)

	rootCmd.AddCommand(bankCmd)
}
