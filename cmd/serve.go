package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/leaderboard/internal/services"
)

var serveCmd = &cobra.Command{
	Use:     "serve [data-file]",
	Aliases: []string{"s"},
	Short:   "Serve a leaderboard with live reload",
	Long: `Serve a leaderboard over HTTP. The page reloads its table over a WebSocket
whenever the data file changes on disk.

Examples:
  leaderboard serve results.csv              # Serve a CSV file
  leaderboard serve --data styled.html       # Serve a styled HTML table
  leaderboard serve -p 9000 --watch=false    # Serve without reloading`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.IntP("port", "p", 8080, "Port to serve on")
	flags.String("host", "localhost", "Host to bind to")
	flags.Bool("open", false, "Open the browser after starting")
	flags.StringP("data", "d", "", "Data file (csv, arrow or html)")
	flags.String("format", "auto", "Data file format (auto, csv, arrow, html)")
	flags.BoolP("watch", "w", true, "Reload the data file when it changes")
	flags.Duration("debounce", 0, "Delay before reloading after a change (default 300ms)")

	bindFlags(flags, map[string]string{
		"server.port":   "port",
		"server.host":   "host",
		"server.open":   "open",
		"data.path":     "data",
		"data.format":   "format",
		"data.watch":    "watch",
		"data.debounce": "debounce",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
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

	svc := services.NewServeService(cfg, logger)
	info := svc.GetServerInfo()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving leaderboard at %s\n", info.ServerURL)
	if info.Watching {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes\n", info.DataPath)
	}

	return svc.Serve(cmd.Context())
}
