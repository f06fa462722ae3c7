// Package server runs the diagnostics HTTP server of the terminal sync agent
// and shuts it down gracefully.
package server
