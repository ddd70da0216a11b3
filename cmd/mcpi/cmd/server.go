package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	mclog "github.com/msto63/mcpi/foundation/core/log"
	"github.com/msto63/mcpi/pkg/core/metrics"
)

const shutdownTimeout = 2 * time.Second

// metricsServer exposes a collector at /metrics for the lifetime of a command
type metricsServer struct {
	srv    *http.Server
	addr   string
	logger *mclog.Logger
	done   chan struct{}
}

func startMetricsServer(addr string, c *metrics.Collector, logger *mclog.Logger) (*metricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, mcerror.Wrap(err, "failed to listen for metrics").
			WithCode(mcerror.CodeConfigError).
			WithDetail("address", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	s := &metricsServer{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		addr:   ln.Addr().String(),
		logger: logger.WithName("metrics"),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorWithErr("metrics server stopped", err)
		}
	}()

	s.logger.Info("metrics server listening", mclog.Fields{"address": s.addr})
	return s, nil
}

// Addr returns the bound address
func (s *metricsServer) Addr() string {
	return s.addr
}

// Close shuts the server down gracefully
func (s *metricsServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.WarnWithErr("metrics server shutdown", err)
	}
	<-s.done
}
