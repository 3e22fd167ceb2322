package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/console"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/enhance"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/extract"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/output"
	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/pdftext"
	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract questions from a PDF file",
	Long: `Extract reads one PDF, identifies exam questions with pattern matching,
filters them by topic, and saves the result as JSON. With --use_llm, questions
are additionally refined through an OpenAI-compatible model and unrelated ones
are dropped.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("file_path", "", "path to the PDF file")
	extractCmd.Flags().String("topic", "", "topic to filter questions")
	extractCmd.Flags().String("subject", "Unknown", "subject area for metadata")
	extractCmd.Flags().Bool("use_llm", false, "refine questions with an LLM")
	extractCmd.Flags().String("save_path", "", "output file path (default: outputs/questions.json)")
	_ = extractCmd.MarkFlagRequired("file_path")
	_ = extractCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	filePath, _ := cmd.Flags().GetString("file_path")
	topic, _ := cmd.Flags().GetString("topic")
	subject, _ := cmd.Flags().GetString("subject")
	useLLM, _ := cmd.Flags().GetBool("use_llm")
	savePath, _ := cmd.Flags().GetString("save_path")

	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	// A missing credential surfaces before any work is done.
	var enhCfg types.EnhanceConfig
	if useLLM {
		var err error
		enhCfg, err = requireEnhanceConfig()
		if err != nil {
			return err
		}
	}

	fmt.Println(console.Linef(console.Info, "Extracting questions from: %s", filePath))
	fmt.Println(console.Linef(console.Info, "Topic filter: %s", topic))

	fmt.Println(console.Line(console.Progress, "Reading PDF content..."))
	questions, err := extract.ExtractFile(pdftext.New(), filePath, topic, extractConfig())
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if useLLM && len(questions) > 0 {
		questions = enhanceQuestions(context.Background(), enhCfg, questions, topic)
	}

	if len(questions) == 0 {
		fmt.Println(console.Linef(console.Info, "No questions found related to '%s'", topic))
		return nil
	}

	fmt.Println(console.Linef(console.Success, "Extracted %d questions related to '%s'", len(questions), topic))
	for i, q := range questions {
		fmt.Printf("\n%d. %s\n", i+1, q)
	}

	if savePath == "" {
		savePath = filepath.Join("outputs", "questions.json")
	}
	result := output.BuildResult(subject, topic, questions, []string{filePath})
	if err := output.Save(result, savePath); err != nil {
		log.Error().Err(err).Str("path", savePath).Msg("persisting extraction result failed")
		return fmt.Errorf("saving questions: %w", err)
	}
	fmt.Println(console.Linef(console.Success, "Questions saved to: %s", savePath))
	return nil
}

// requireEnhanceConfig resolves the enhancement configuration and errors when
// no API key is available.
func requireEnhanceConfig() (types.EnhanceConfig, error) {
	cfg := enhanceConfig()
	if cfg.APIKey == "" {
		return types.EnhanceConfig{}, fmt.Errorf("OpenAI API key not found: set OPENAI_API_KEY or create .secrets/openai-api-key")
	}
	return cfg, nil
}

// enhanceQuestions refines questions through the configured model. Backend
// failures degrade to the original list.
func enhanceQuestions(ctx context.Context, cfg types.EnhanceConfig, questions []string, topic string) []string {
	fmt.Println(console.Line(console.Progress, "Enhancing questions with LLM..."))

	enhancer := enhance.New(enhance.NewOpenAIBackend(cfg), cfg.CallDelay)
	enhanced, summary, err := enhancer.EnhanceAll(ctx, questions, topic)
	if err != nil {
		log.Warn().Err(err).Msg("enhancement failed, keeping original questions")
		fmt.Println(console.Linef(console.Error, "LLM enhancement failed: %v", err))
		return enhanced
	}

	fmt.Println(console.Linef(console.Success, "LLM enhanced %d out of %d questions", summary.Enhanced, summary.Total))
	return enhanced
}
