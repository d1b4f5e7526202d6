// Package config loads server settings from an optional YAML file and
// environment variables. It covers the listen address, runtime environment,
// log level and the dispatch metrics pipeline.
package config
