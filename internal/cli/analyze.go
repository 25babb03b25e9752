package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/rules"
	"github.com/clauselens/clauselens/internal/service"
	"github.com/spf13/cobra"
)

// AnalyzeCmd returns the analyze command: a one-shot offline analysis
// of a contract file. No database or embedding provider is needed, so
// alternative-language retrieval is skipped.
func AnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a contract file for compliance findings",
		Long:  "Run the rule engine over a contract file (or stdin with '-') and print the compliance report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().String("rules", "", "Path to a rule table JSON file (defaults to the built-in table)")
	cmd.Flags().String("corpus", "", "Path to a policy corpus JSON file (defaults to the built-in corpus)")
	cmd.Flags().Float64("min-confidence", service.DefaultMinConfidence, "Minimum confidence for reported findings")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readContract(args[0])
	if err != nil {
		return err
	}

	cfg := &config.Config{}
	if rulesPath, _ := cmd.Flags().GetString("rules"); rulesPath != "" {
		cfg.RulesPath = rulesPath
	}
	if corpusPath, _ := cmd.Flags().GetString("corpus"); corpusPath != "" {
		cfg.CorpusPath = corpusPath
	}

	table, err := loadRuleTable(cfg)
	if err != nil {
		return fmt.Errorf("failed to load rule table: %w", err)
	}

	model, err := loadModel(cfg)
	if err != nil {
		return fmt.Errorf("failed to build term-weighting model: %w", err)
	}

	svc, err := service.NewAnalysisServiceWithConfig(
		rules.NewEngine(table), model, nil, nil, service.DefaultAnalysisConfig())
	if err != nil {
		return fmt.Errorf("failed to create analysis service: %w", err)
	}
	defer svc.Close()

	opts := service.DefaultOptions()
	opts.IncludeAlternatives = false
	if minConfidence, _ := cmd.Flags().GetFloat64("min-confidence"); minConfidence > 0 {
		opts.MinConfidence = minConfidence
	}

	report, err := svc.Analyze(cmd.Context(), string(text), opts)
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	fmt.Println(string(output))

	return nil
}

func readContract(path string) ([]byte, error) {
	if path == "-" {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return text, nil
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract file: %w", err)
	}
	return text, nil
}
