package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/leaderboard/internal/config"
	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/internal/services"
	"github.com/conneroisu/leaderboard/pkg/dataset"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
)

var inspectOutput string

var inspectCmd = &cobra.Command{
	Use:     "inspect [data-file]",
	Aliases: []string{"i"},
	Short:   "Show the resolved search, column selection and filters",
	Long: `Build the leaderboard from the configuration and data file and print the
settings the front end would receive, with every filter inferred from the data.

Examples:
  leaderboard inspect results.csv            # Table output
  leaderboard inspect results.csv -o yaml    # YAML output`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "table", "Output format (table, json, yaml)")
}

// inspection is the report printed by inspect.
type inspection struct {
	Headers []string                     `json:"headers"`
	Rows    int                          `json:"rows"`
	Search  leaderboard.SearchColumns    `json:"search_columns"`
	Select  leaderboard.ColumnSelection  `json:"select_columns"`
	Filters []leaderboard.ResolvedFilter `json:"filter_columns"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := validateFormat(inspectOutput, "table", "json", "yaml"); err != nil {
		return err
	}
	if len(args) == 1 {
		viper.Set("data.path", args[0])
	}

	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	report, err := inspect(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch inspectOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		return writeYAML(out, report)
	default:
		writeInspectionTable(out, report)
		return nil
	}
}

func inspect(ctx context.Context, cfg *config.Config, logger logging.Logger) (inspection, error) {
	lb, _, err := services.NewComponent(ctx, cfg, logger)
	if err != nil {
		return inspection{}, err
	}
	return inspection{
		Headers: lb.Headers(),
		Rows:    lb.Value().NumRows(),
		Search:  lb.Search(),
		Select:  lb.Selection(),
		Filters: lb.Filters(),
	}, nil
}

// writeYAML encodes v through its JSON form so the custom JSON encodings of
// choices and ranges carry over.
func writeYAML(w io.Writer, v interface{}) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(doc, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}

func writeInspectionTable(w io.Writer, r inspection) {
	fmt.Fprintf(w, "%d rows, %d columns: %s\n\n", r.Rows, len(r.Headers), strings.Join(r.Headers, ", "))

	if r.Search.Enabled() {
		fmt.Fprintf(w, "Search: %s", r.Search.PrimaryColumn)
		if len(r.Search.SecondaryColumns) > 0 {
			fmt.Fprintf(w, " (also %s)", strings.Join(r.Search.SecondaryColumns, ", "))
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "Search: disabled")
	}

	fmt.Fprintf(w, "Columns shown: %s\n", strings.Join(r.Select.DefaultSelection, ", "))
	if len(r.Select.CantDeselect) > 0 {
		fmt.Fprintf(w, "Always shown: %s\n", strings.Join(r.Select.CantDeselect, ", "))
	}
	fmt.Fprintf(w, "Column picker: %t\n\n", r.Select.Allow)

	if len(r.Filters) == 0 {
		fmt.Fprintln(w, "No filters")
		return
	}
	rows := make([][]string, len(r.Filters))
	for i, f := range r.Filters {
		rows[i] = []string{f.Column, string(f.Kind), describeDefault(f.Default), describeChoices(f.Choices), describeBounds(f)}
	}
	writeTable(w, []string{"column", "type", "default", "choices", "bounds"}, rows)
}

func describeDefault(d leaderboard.FilterDefault) string {
	switch x := d.(type) {
	case leaderboard.Checked:
		return fmt.Sprintf("%t", bool(x))
	case leaderboard.Range:
		return fmt.Sprintf("%s to %s", dataset.Format(x.Low), dataset.Format(x.High))
	case leaderboard.Selection:
		return describeChoices(x)
	default:
		return ""
	}
}

func describeChoices(choices []leaderboard.Choice) string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	return strings.Join(labels, ", ")
}

func describeBounds(f leaderboard.ResolvedFilter) string {
	if f.Min == nil || f.Max == nil {
		return ""
	}
	return fmt.Sprintf("%s to %s", dataset.Format(*f.Min), dataset.Format(*f.Max))
}
