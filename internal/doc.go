// Package internal contains the core implementation packages for docforge.
//
// # Package Organization
//
//   - bootstrap: Runtime preparation and process-wide facts (version,
//     template directory, cache folder)
//   - config: Configuration loading and validation through Viper
//   - errors: Typed errors for installation, configuration and wiring faults
//   - logging: Structured logging on top of log/slog
//   - version: Build metadata stamped at link time
//   - testutils: Helpers for building installation layouts in tests
//
// # Start-up Order
//
// The cmd package loads configuration, builds a logger and constructs the
// bootstrap exactly once before any command body runs. The cache folder is
// then set from configuration; readers query it afterwards.
//
// # Testing Strategy
//
//   - Unit tests with testify for every package
//   - Property tests with gopter behind the "property" build tag
//     (go test -tags property ./...)
package internal
