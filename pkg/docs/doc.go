// Package docs is the overview of the leaderboard module.
//
// The leaderboard component turns a tabular dataset plus a declarative
// configuration into a browser-ready leaderboard: a searchable, filterable
// table with a column picker. The server side normalizes the configuration,
// infers a filter widget for every filtered column from its data, and
// converts table payloads between the wire shape and the dataset.
//
// # Key Features
//
//   - Configuration normalization: search and select shorthands expand into
//     their canonical forms, and every referenced column is checked against
//     the dataset
//   - Filter inference: date columns become sliders, numeric columns get
//     quantile defaults and data bounds, booleans become checkboxes and
//     everything else becomes a group of distinct values
//   - Payload codec: datasets encode to headers, rows and optional styling
//     metadata, and decode back with the zero row sentinel preserved
//   - Styled tables: a styler attaches CSS declarations and display values
//     to cells, subject to a minimum styling engine version
//   - Demo host: an HTTP server that mounts the component, pushes updates
//     over a websocket and reloads the data file when it changes
//
// # Quick Start
//
//	// Serve a CSV file and reload it on change
//	leaderboard serve examples/models.csv --config examples/leaderboard.yml
//
//	// Show the normalized configuration and the inferred filters
//	leaderboard inspect --config examples/leaderboard.yml -o yaml
//
//	// Encode a data file as a wire payload
//	leaderboard convert examples/styled.html --format html
//
// Embedding the component directly:
//
//	lb, err := leaderboard.New(ds, leaderboard.Config{
//		Search:  leaderboard.SearchShorthand{"model"},
//		Filters: []leaderboard.FilterColumn{leaderboard.FilterName("params")},
//	})
//	if err != nil {
//		return err
//	}
//	cfg := lb.FrontendConfig()
//
// # Architecture
//
//   - pkg/dataset: columns, value normalization, CSV and Arrow readers
//   - pkg/styler: styled tables and the styled HTML reader
//   - pkg/leaderboard: the component, its configuration and the codec
//   - internal/config: file, environment and flag configuration via viper
//   - internal/services: source loading, component building and serving
//   - internal/server: HTTP endpoints, the index page and the update hub
//   - internal/watcher: debounced fsnotify watching of the data file
//   - cmd: the cobra command tree
//
// # Security
//
// Websocket connections and cross-origin requests are accepted only from
// origins matching server.allowed_origins. Hostnames, paths and URLs coming
// from configuration are validated before use, and request bodies sent to
// the preprocess endpoint are size limited.
//
// # Configuration
//
// Configuration is read from .leaderboard.yml, the file named by --config or
// LEADERBOARD_CONFIG_FILE, LEADERBOARD_* environment variables and command
// line flags, with later sources taking precedence:
//
//	server:
//	  host: localhost
//	  port: 8080
//	data:
//	  path: models.csv
//	  watch: true
//	  debounce: 300ms
//	component:
//	  search: [model]
//	  filters:
//	    - organization
//	    - column: params
//	      type: slider
//	log:
//	  level: info
//	  format: auto
//
// # Testing
//
// Unit tests run with go test ./... and property tests with
// go test -tags property ./.... End to end tests that start the server and
// watch a real file run with go test -tags integration ./integration_tests.
package docs
