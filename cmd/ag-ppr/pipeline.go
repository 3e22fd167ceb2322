// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/console"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/extract"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/output"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/pdftext"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/scrape"
	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the complete pipeline (scrape + extract)",
	Long: `Pipeline scrapes papers for a subject and topic, then extracts topic
questions from every paper found. When scraping turns up nothing, papers
already present under the raw papers directory are processed instead.
Questions are aggregated across all papers and saved to outputs/questions.json.`,
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().String("subject", "", `subject area (e.g. "Mathematics")`)
	pipelineCmd.Flags().String("topic", "", `specific topic (e.g. "Linear Algebra")`)
	pipelineCmd.Flags().Bool("use_llm", false, "refine questions with an LLM")
	_ = pipelineCmd.MarkFlagRequired("subject")
	_ = pipelineCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	topic, _ := cmd.Flags().GetString("topic")
	useLLM, _ := cmd.Flags().GetBool("use_llm")

	// A missing credential surfaces before any network work.
	var enhCfg types.EnhanceConfig
	if useLLM {
		var err error
		enhCfg, err = requireEnhanceConfig()
		if err != nil {
			return err
		}
	}

	fmt.Println(console.Linef(console.Info, "Starting pipeline for subject: %s, topic: %s", subject, topic))

	scrapeCfg := scrapeConfig()
	fmt.Println(console.Line(console.Info, "Step 1: Scraping papers..."))
	result, err := scrape.New(scrapeCfg).ScrapeBatch(subject, topic, os.Stdout)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}

	files := result.Files()
	if len(files) == 0 {
		existing, _ := filepath.Glob(filepath.Join(scrapeCfg.PapersDir, "*.pdf"))
		if len(existing) == 0 {
			return fmt.Errorf("no papers found to process")
		}
		fmt.Println(console.Line(console.Info, "Using existing papers from previous downloads"))
		files = existing
	}

	fmt.Println(console.Line(console.Info, "Step 2: Extracting questions..."))
	extractor := pdftext.New()
	extractCfg := extractConfig()

	var allQuestions, sources []string
	for _, f := range files {
		if !strings.EqualFold(filepath.Ext(f), ".pdf") {
			continue
		}
		fmt.Println(console.Linef(console.Info, "Processing: %s", filepath.Base(f)))
		fmt.Println(console.Line(console.Progress, "Reading PDF content..."))

		questions, err := extract.ExtractFile(extractor, f, topic, extractCfg)
		if err != nil {
			log.Error().Err(err).Str("file", f).Msg("extraction failed, skipping paper")
			fmt.Println(console.Linef(console.Error, "Skipping %s: %v", filepath.Base(f), err))
			continue
		}
		allQuestions = append(allQuestions, questions...)
		sources = append(sources, f)
	}
	allQuestions = extract.Dedupe(allQuestions)

	if useLLM && len(allQuestions) > 0 {
		allQuestions = enhanceQuestions(context.Background(), enhCfg, allQuestions, topic)
	}

	if len(allQuestions) == 0 {
		fmt.Println(console.Linef(console.Info, "No questions found related to '%s' in any papers", topic))
		return nil
	}

	fmt.Println(console.Linef(console.Success, "Extracted %d total questions related to '%s'", len(allQuestions), topic))
	for i, q := range allQuestions {
		fmt.Printf("\n%d. %s\n", i+1, q)
	}

	savePath := filepath.Join("outputs", "questions.json")
	resultFile := output.BuildResult(subject, topic, allQuestions, sources)
	if err := output.Save(resultFile, savePath); err != nil {
		log.Error().Err(err).Str("path", savePath).Msg("persisting extraction result failed")
		return fmt.Errorf("saving questions: %w", err)
	}
	fmt.Println(console.Linef(console.Success, "All questions saved to: %s", savePath))
	return nil
}
