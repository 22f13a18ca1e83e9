// Package config loads the leaderboard host configuration using Viper:
// YAML files, environment variables with the LEADERBOARD_ prefix and
// command-line flags.
//
// The component section is kept loosely typed. The services package turns it
// into leaderboard.Config with the leaderboard decoders, so configuration
// shape errors are reported by the component itself.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/leaderboard/internal/errors"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Component ComponentConfig `mapstructure:"component"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"min=0,max=65535"`
	Host           string   `mapstructure:"host" validate:"required,safehost"`
	Open           bool     `mapstructure:"open"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

type DataConfig struct {
	Path     string        `mapstructure:"path" validate:"safepath"`
	Format   string        `mapstructure:"format" validate:"oneof=auto csv arrow html"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce" validate:"min=0"`
}

// ComponentConfig mirrors leaderboard.Config. Search, Select and Filters
// accept every shape the leaderboard decoders accept.
type ComponentConfig struct {
	Datatype               []string         `mapstructure:"datatype"`
	Search                 interface{}      `mapstructure:"search"`
	Select                 interface{}      `mapstructure:"select"`
	Filters                interface{}      `mapstructure:"filters"`
	HideColumns            []string         `mapstructure:"hide_columns"`
	BoolCheckboxGroupLabel string           `mapstructure:"bool_checkboxgroup_label"`
	LatexDelimiters        []LatexDelimiter `mapstructure:"latex_delimiters" validate:"dive"`
	Label                  string           `mapstructure:"label"`
	ShowLabel              *bool            `mapstructure:"show_label"`
	Height                 int              `mapstructure:"height" validate:"min=0"`
	Scale                  *int             `mapstructure:"scale"`
	MinWidth               int              `mapstructure:"min_width" validate:"min=0"`
	Interactive            bool             `mapstructure:"interactive"`
	Visible                *bool            `mapstructure:"visible"`
	ElemID                 string           `mapstructure:"elem_id"`
	ElemClasses            []string         `mapstructure:"elem_classes"`
	Wrap                   bool             `mapstructure:"wrap"`
	LineBreaks             *bool            `mapstructure:"line_breaks"`
	ColumnWidths           []interface{}    `mapstructure:"column_widths"`
}

type LatexDelimiter struct {
	Left    string `mapstructure:"left" validate:"required"`
	Right   string `mapstructure:"right" validate:"required"`
	Display bool   `mapstructure:"display"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=auto json text"`
}

// Defaults applied when a key is not set.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 8080
	DefaultDebounce = 300 * time.Millisecond
)

// Load unmarshals the global viper instance, applies defaults and validates
// the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.WrapConfig(err, "config_unmarshal", "reading configuration")
	}

	if config.Server.Host == "" {
		config.Server.Host = DefaultHost
	}
	if !viper.IsSet("server.port") {
		config.Server.Port = DefaultPort
	}
	if len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = []string{"localhost:*", "127.0.0.1:*"}
	}

	if config.Data.Format == "" {
		config.Data.Format = "auto"
	}
	if !viper.IsSet("data.debounce") {
		config.Data.Debounce = DefaultDebounce
	}

	// An explicitly empty list disables math rendering; keep it distinct
	// from an unset key.
	if viper.IsSet("component.latex_delimiters") && config.Component.LatexDelimiters == nil {
		config.Component.LatexDelimiters = []LatexDelimiter{}
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "auto"
	}

	if err := validateConfig(&config); err != nil {
		return nil, errors.WrapConfig(err, "invalid_configuration", "invalid configuration")
	}

	return &config, nil
}

// Address returns the host:port the demo server listens on.
func (c ServerConfig) Address() string {
	return joinHostPort(c.Host, c.Port)
}
