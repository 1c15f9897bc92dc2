package httphandlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"gitlab.com/TitanInd/netcore/internal/interfaces"
)

const ShutdownTimeout = 5 * time.Second

type Server struct {
	addr    string
	handler http.Handler

	log interfaces.ILogger
}

func NewServer(addr string, handler http.Handler, log interfaces.ILogger) *Server {
	return &Server{
		addr:    addr,
		handler: handler,
		log:     log,
	}
}

// Run serves until ctx is cancelled, in-flight requests get ShutdownTimeout to complete
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Infof("http server is listening: %s", listener.Addr())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			return err
		}
		s.log.Infof("http server closed: %s", s.addr)
		return ctx.Err()
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
