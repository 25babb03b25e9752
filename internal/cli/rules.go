package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/clauselens/clauselens/internal/rules"
	"github.com/spf13/cobra"
)

// RulesCmd returns the rules command group
func RulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate rule tables",
	}

	cmd.AddCommand(rulesValidateCmd())
	cmd.AddCommand(rulesListCmd())

	return cmd
}

func rulesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a rule table JSON file",
		Long:  "Compile and validate every rule in the given table; any invalid rule fails the whole table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := rules.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("rule table is invalid: %w", err)
			}
			fmt.Printf("rule table is valid: %d rules (%d missing-clause, %d prohibited-language)\n",
				table.Len(), len(table.MissingClause), len(table.ProhibitedLanguage))
			return nil
		},
	}
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the active rule table as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			rulesPath, _ := cmd.Flags().GetString("rules")

			var table *rules.Table
			var err error
			if rulesPath != "" {
				table, err = rules.LoadFile(rulesPath)
			} else {
				table, err = rules.Load(rules.DefaultTableSpec())
			}
			if err != nil {
				return fmt.Errorf("failed to load rule table: %w", err)
			}

			type ruleOut struct {
				ID          string `json:"id"`
				Kind        string `json:"kind"`
				Pattern     string `json:"pattern"`
				Severity    string `json:"severity"`
				Description string `json:"description"`
				Citation    string `json:"citation,omitempty"`
				Category    string `json:"category,omitempty"`
			}

			out := make([]ruleOut, 0, table.Len())
			for _, r := range table.All() {
				out = append(out, ruleOut{
					ID:          r.ID,
					Kind:        string(r.Kind),
					Pattern:     r.Pattern.String(),
					Severity:    string(r.Severity),
					Description: r.Description,
					Citation:    r.Citation,
					Category:    r.Category,
				})
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}

	cmd.Flags().String("rules", "", "Path to a rule table JSON file (defaults to the built-in table)")

	return cmd
}
