// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including server settings, the animal identity, the monitored instance seed
// list, and the friend store selection.
package config
