package server

import "google.golang.org/grpc"

// Registrar is implemented by every service package that attaches itself to
// the gRPC server.
type Registrar interface {
	Register(s *grpc.Server)
}
