// Package config provides centralized configuration management for the
// explorer. It handles loading configuration from multiple sources,
// validation, and a type-safe API for the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TSX_* for namespacing:
//
//	TSX_LOGGING_LEVEL=debug
//	TSX_DETECT_THRESHOLD=0.6
//	TSX_FORMAT_CURRENCY_SYMBOL=€
//	TSX_EXPORT_OUTPUT_DIR=out
//
// # Validation
//
// All configuration is validated at load time: struct tags cover per-field
// ranges, and hand checks cover cross-field rules such as the strictly
// ascending auto-granularity thresholds.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
