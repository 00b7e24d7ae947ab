// Package config provides configuration loading, merging, and validation
// facilities for the client and the reference server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. JSON or YAML config file
//  2. Environment variables
//  3. Command-line flags
//
// The main entry points are [GetClientConfig] and [GetServerConfig]; both
// fill unset fields with defaults and validate the result.
package config
