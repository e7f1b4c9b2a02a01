// Package config loads runtime configuration for the LoveLetters CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the LoveLetters API
//	-t int      request timeout (seconds)
//	-s string   directory (relative to the working dir) for the saved session
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:5001",
//	  "request_timeout": "10s",
//	  "session_dir": ".loveletters"
//	}
package config
