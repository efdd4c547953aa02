package health

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Rogue-Bear-Innovations/starwars-back/internal/config"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/db"
)

const probeInterval = 10 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes grpc.health.v1.Health. The status follows the store's ping result.
type Server struct {
	grpcServer *grpc.Server
	health     *grpchealth.Server
	store      Pinger
	logger     *zap.SugaredLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGRPCServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, repo *db.Repository, logger *zap.SugaredLogger) *Server {
	instance := New(repo, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", cfg.GRPCAddr())
			if err != nil {
				return errors.Wrap(err, "failed to listen")
			}
			logger.Infow("Starting GRPC server.", "addr", lis.Addr().String())

			instance.Probe(ctx)
			instance.StartProbing(probeInterval)

			go func() {
				if err := instance.Serve(lis); err != nil {
					logger.Errorw("GRPC server failed", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping GRPC server.")
			instance.Stop()
			return nil
		},
	})

	return instance
}

func New(store Pinger, logger *zap.SugaredLogger) *Server {
	instance := &Server{
		grpcServer: grpc.NewServer(),
		health:     grpchealth.NewServer(),
		store:      store,
		logger:     logger,
	}
	instance.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(instance.grpcServer, instance.health)
	return instance
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Probe pings the store once and publishes the result.
func (s *Server) Probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warnw("store ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
}

func (s *Server) StartProbing(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, probeCancel := context.WithTimeout(ctx, interval)
				s.Probe(probeCtx)
				probeCancel()
			}
		}
	}()
}

func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
