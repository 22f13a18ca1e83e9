// Package internal contains the packages behind the leaderboard CLI. They
// are not importable by other modules; the embeddable component lives under
// pkg/.
//
// # Package Organization
//
//   - config: Viper-backed configuration with struct-tag validation
//   - errors: the structured error type shared with pkg/leaderboard
//   - logging: context-aware structured logging on log/slog
//   - middleware: HTTP middleware stack of the demo host
//   - server: HTTP and WebSocket host for one component
//   - services: data loading, component construction and the serve loop
//   - testutils: fixtures shared by package tests
//   - validation: hostname, path, URL and origin checks
//   - version: build information
//   - watcher: debounced file watching with fsnotify
//
// # Concurrency
//
// A leaderboard component is not safe for concurrent use. The server owns
// the only instance and serializes access with a mutex; the watcher reloads
// through the server rather than touching the component directly.
package internal
