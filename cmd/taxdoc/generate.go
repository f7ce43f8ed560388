package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mhollis/taxdoc/internal/config"
	"github.com/mhollis/taxdoc/internal/convert"
	"github.com/mhollis/taxdoc/internal/logger"
	"github.com/mhollis/taxdoc/internal/pipeline"
	"github.com/mhollis/taxdoc/internal/schemas"
	"github.com/mhollis/taxdoc/internal/types"
)

var (
	generateQuickPath    string
	generateStrategyPath string
	generateTemplate     string
	generateOutputDir    string
	generateClientName   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one report from questionnaire JSON files",
	Long: `Run the report pipeline once, without the server. Reads one or two
questionnaire JSON files, fills the report template, and writes the result
into the output directory. A PDF is produced when TAXDOC_CLOUDCONVERT_API_KEY
is set and the conversion service is reachable; otherwise the DOCX is written.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateQuickPath, "quick", "q", "", "Path to the quick questionnaire JSON file (required)")
	generateCmd.Flags().StringVarP(&generateStrategyPath, "strategy", "s", "", "Path to the strategy selector JSON file (optional)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Path to the DOCX template (overrides TAXDOC_TEMPLATE_PATH)")
	generateCmd.Flags().StringVarP(&generateOutputDir, "out", "o", ".", "Directory to write the report into")
	generateCmd.Flags().StringVar(&generateClientName, "client-name", "", "Client name for the report filename (defaults to the questionnaire's client name)")

	_ = generateCmd.MarkFlagRequired("quick")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("template") {
		cfg.TemplatePath = generateTemplate
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	quick, err := readQuestionnaire(generateQuickPath)
	if err != nil {
		return err
	}
	var strategy types.QuestionnaireRecord
	if generateStrategyPath != "" {
		if strategy, err = readQuestionnaire(generateStrategyPath); err != nil {
			return err
		}
	}

	report, err := pipeline.Generate(ctx, quick, strategy, pipeline.Options{
		TemplatePath: cfg.TemplatePath,
		ClientName:   generateClientName,
		Converter: convert.NewClient(cfg.CloudConvertAPIKey, &convert.Options{
			BaseURL: cfg.CloudConvertURL,
			Logger:  log,
		}),
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	outPath := filepath.Join(generateOutputDir, report.Filename)
	if err := os.WriteFile(outPath, report.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(report.Data))
	return nil
}

// readQuestionnaire loads and schema-validates one questionnaire file.
func readQuestionnaire(path string) (types.QuestionnaireRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire %s: %w", path, err)
	}
	var record types.QuestionnaireRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid questionnaire JSON in %s: %w", path, err)
	}
	if err := schemas.ValidateQuestionnaire(record); err != nil {
		return nil, fmt.Errorf("questionnaire %s failed validation: %w", path, err)
	}
	return record, nil
}
