// Package cmd provides the leaderboard command-line interface.
//
// Configuration is read, in order of precedence, from command-line flags,
// LEADERBOARD_<SECTION>_<OPTION> environment variables and a YAML file: the
// --config flag, the LEADERBOARD_CONFIG_FILE variable or .leaderboard.yml in
// the working directory.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/leaderboard/internal/config"
	"github.com/conneroisu/leaderboard/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Serve, inspect and convert leaderboard tables",
	Long: `leaderboard hosts a searchable, filterable leaderboard table for local
development and converts data files into the payload the front end reads.

Quick Start:
  leaderboard serve --data results.csv       Serve a CSV file with live reload
  leaderboard inspect results.csv            Show the resolved search and filters
  leaderboard convert results.csv            Print the payload JSON
  leaderboard version                        Show version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .leaderboard.yml, can also use LEADERBOARD_CONFIG_FILE)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "auto", "log format (auto, json, text)")

	bindFlags(flags, map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	})
}

// bindFlags binds configuration keys to the named flags of fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if env := os.Getenv("LEADERBOARD_CONFIG_FILE"); env != "" {
		viper.SetConfigFile(env)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".leaderboard")
	}

	viper.SetEnvPrefix("LEADERBOARD")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Error reading config file:", err)
	}
}

// loadConfig loads and validates the configuration, printing validation
// warnings to w.
func loadConfig(w io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	result := config.ValidateConfig(cfg)
	for _, warning := range result.Warnings {
		fmt.Fprintln(w, "warning:", warning.String())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(lc config.LogConfig, w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: lc.Format,
		Output: w,
	}), nil
}
