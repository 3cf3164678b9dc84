// README: API gateway; owns the HTTP listener and delegates to module services.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"waybill/internal/infra"
	"waybill/internal/modules/orderflow"
	"waybill/internal/modules/pricing"
	"waybill/internal/modules/upload"
	"waybill/internal/modules/verification"
)

type ServerDeps struct {
	Orders       *orderflow.Service
	Verification *verification.Service
	Pricing      *pricing.Service
	Uploads      *upload.Service
	Verifier     infra.TokenVerifier
	Logger       *zap.Logger
}

type Server struct {
	orders       *orderflow.Service
	verification *verification.Service
	pricing      *pricing.Service
	uploads      *upload.Service
	verifier     infra.TokenVerifier
	logger       *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		orders:       deps.Orders,
		verification: deps.Verification,
		pricing:      deps.Pricing,
		uploads:      deps.Uploads,
		verifier:     deps.Verifier,
		logger:       logger,
	}
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http shutting down")
	return srv.Shutdown(shutdownCtx)
}
