// Package http implements the diagnostics endpoint of the terminal sync agent.
//
// It exposes the agent's health report, its Prometheus metrics and two
// control routes: one that runs a manual (optionally forced) resync and one
// that wakes the background sync job. Request tracing and access logging are
// applied to every route.
package http
