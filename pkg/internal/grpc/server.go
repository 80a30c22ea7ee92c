package grpc

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "quickpoll"

// Pinger is anything whose liveness decides the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	srv    *grpc.Server
	health *health.Server
}

func NewGrpc() *Server {
	server := &Server{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
	}

	healthpb.RegisterHealthServer(server.srv, server.health)
	reflection.Register(server.srv)

	return server
}

// Probe pings the storage and publishes the result as the serving status.
func (v *Server) Probe(ctx context.Context, target Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	err := target.Ping(ctx)
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		log.Warn().Err(err).Msg("Storage health probe failed...")
	}

	v.health.SetServingStatus("", status)
	v.health.SetServingStatus(ServiceName, status)
	return err
}

func (v *Server) Serve(listener net.Listener) error {
	return v.srv.Serve(listener)
}

func (v *Server) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	return v.Serve(listener)
}

func (v *Server) Stop() {
	v.health.Shutdown()
	v.srv.GracefulStop()
}
