package server

import (
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/gheider394-beep/2-sub000/internal/config"
)

// StartGRPCServer boots a gRPC server and registers all provided services.
// The server speaks the json codec exclusively.
func StartGRPCServer(cfg *config.Config, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(grpc.ForceServerCodec(jsonCodec{}))

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	return grpcServer.Serve(lis)
}
