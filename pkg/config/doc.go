// Package config defines the root configuration for the Zephyr decision
// service and handles loading it from YAML with defaults, validation, and
// environment variable overrides.
//
// The loading sequence is:
//
//  1. Parse the YAML file
//  2. Apply default values to unset fields
//  3. Apply ZEPHYR_* environment variable overrides
//  4. Validate the final configuration
//
// Environment variables follow the naming convention ZEPHYR_SECTION_FIELD
// (e.g. ZEPHYR_SERVER_LISTEN_ADDRESS, ZEPHYR_CATALOG_PATH) and always take
// precedence over file-based configuration.
package config
