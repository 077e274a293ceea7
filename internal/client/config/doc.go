// Package config loads runtime configuration for the course editor CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the course server
//	-i int      online status check interval (seconds)
//	-f string   path of the local state database
//	-m int      max upload size (megabytes)
//
// # JSON schema
//
// Intervals accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "state_db_path": "editor.db",
//	  "max_upload_size": 16777216,
//	  "request_timeout": "30s"
//	}
package config
