// Package config provides configuration loading, merging, and validation
// for the terminal sync agent.
//
// Configuration is assembled from several sources. A field set by an earlier
// source is never overwritten by a later one:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetStructuredConfig] for the raw merged
// configuration and [GetClientConfig] for the validated view consumed by the
// agent.
package config
