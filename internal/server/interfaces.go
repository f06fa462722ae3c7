package server

// Server is the lifecycle of the diagnostics server.
//
// RunServer blocks until the server stops; Shutdown stops it gracefully and
// makes a running RunServer return.
type Server interface {
	RunServer()
	Shutdown()
}
