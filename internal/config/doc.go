// Package config loads and validates Tushle configuration from a TOML file,
// layered with environment variables (optionally sourced from a .env file)
// for secrets such as API keys and database credentials.
package config
