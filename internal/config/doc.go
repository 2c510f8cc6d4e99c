// Package config loads the runner's configuration from a YAML file with
// environment-variable overrides, using viper as the teacher does for
// its own configuration. Unlike the teacher, unknown fields are
// rejected: the config object is a closed record.
package config
