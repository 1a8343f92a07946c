package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ShutdownTimeout bounds how long in-flight requests get on shutdown.
const ShutdownTimeout = 5 * time.Second

// Sweeper removes expired records in the background.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Server represents the HTTP server
type Server struct {
	http    *http.Server
	logger  *logrus.Logger
	sweeper Sweeper
	every   time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewServer creates a new server instance. sweeper may be nil.
func NewServer(addr string, handler http.Handler, sweeper Sweeper, logger *logrus.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:  logger,
		sweeper: sweeper,
		every:   time.Hour,
		stop:    make(chan struct{}),
	}
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	if s.sweeper != nil {
		s.wg.Add(1)
		go s.sweepLoop()
	}

	s.logger.WithField("addr", s.http.Addr).Info("starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	err := s.http.Shutdown(ctx)
	s.wg.Wait()
	return err
}

func (s *Server) sweepLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Server) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to sweep expired sessions")
		return
	}
	if n > 0 {
		s.logger.WithField("removed", n).Info("expired sessions swept")
	}
}
