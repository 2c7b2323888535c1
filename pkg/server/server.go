// Package server exposes step-table computation over HTTP, so a bench
// computer next to the magnetiser can fetch settings without a local copy of
// the calibration.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/talvi/pulsemagstep/pkg/calibration"
	"github.com/talvi/pulsemagstep/pkg/config"
)

const shutdownTimeout = 5 * time.Second

// Server serves one calibration table. Defaults for omitted request fields
// come from conf.
type Server struct {
	table calibration.Table
	conf  config.Config
}

// New returns the HTTP handler for table.
func New(table calibration.Table, conf config.Config) http.Handler {
	s := &Server{table: table, conf: conf}
	return s.routes()
}

func (s *Server) routes() *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/calibration", s.getCalibration)
	router.GET("/config", s.getConfig)
	router.POST("/steps", s.postSteps)
	router.GET("/version", getVersion)

	return router
}

// Run serves handler on listen until ctx is cancelled. listen is a TCP
// address, or a socket path prefixed with "unix://".
func Run(ctx context.Context, listen string, handler http.Handler) error {
	l, err := newListener(listen)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
		return err
	}
	return <-errc
}

func newListener(listen string) (net.Listener, error) {
	if path, ok := strings.CutPrefix(listen, "unix://"); ok {
		// A stale socket from a previous run blocks Listen.
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		return net.Listen("unix", path)
	}
	return net.Listen("tcp", listen)
}
