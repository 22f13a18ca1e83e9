package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/leaderboard/internal/services"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
)

var (
	convertFormat      string
	convertOutput      string
	convertInteractive bool
	convertIndent      bool
)

var convertCmd = &cobra.Command{
	Use:     "convert <data-file>",
	Aliases: []string{"c"},
	Short:   "Convert a data file into the payload JSON",
	Long: `Encode a CSV, Arrow or styled HTML file as the payload the front end reads:
headers, row-major data and, for styled tables, display values and styling.

Examples:
  leaderboard convert results.csv                # Print to stdout
  leaderboard convert styled.html -o value.json  # Write to a file
  leaderboard convert styled.html --interactive  # Drop styles as an editable table would`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.StringVar(&convertFormat, "format", "auto", "Data file format (auto, csv, arrow, html)")
	flags.StringVarP(&convertOutput, "output", "o", "", "Write the payload to a file instead of stdout")
	flags.BoolVar(&convertInteractive, "interactive", false, "Encode as an interactive component")
	flags.BoolVar(&convertIndent, "indent", false, "Indent the JSON output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := validateFormat(convertFormat, "auto", "csv", "arrow", "html"); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	source, err := services.LoadSource(args[0], convertFormat)
	if err != nil {
		return err
	}

	lb, err := leaderboard.New(nil, leaderboard.Config{Interactive: convertInteractive, Logger: logger})
	if err != nil {
		return err
	}
	payload, err := lb.Postprocess(cmd.Context(), source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if convertOutput != "" {
		f, err := os.Create(convertOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if convertIndent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(payload)
}
