// Package config defines the application configuration structure and loads
// it from environment variables (LEXIMO_ prefix) and an optional YAML file,
// validating the result before the rest of the application starts.
package config
