package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scott-cotton/cli"
)

// Server serves rendered templates and the management API over HTTP.
type Server struct {
	app         *app
	logger      *slog.Logger
	templateAPI *TemplateAPI
	dataAPI     *DataAPI
	serverAPI   *ServerAPI
	mux         *http.ServeMux
}

// NewServer wires the API handlers for a. The app must have a template manager.
func NewServer(a *app) *Server {
	server := &Server{
		app:         a,
		logger:      a.logger,
		templateAPI: NewTemplateAPI(a.tm, a.config.Server.Headers, a.logger),
		dataAPI:     NewDataAPI(a, a.logger),
		serverAPI:   NewServerAPI(a.config, a.logger),
		mux:         http.NewServeMux(),
	}
	server.templateAPI.RegisterRoutes(server.mux)
	server.dataAPI.RegisterRoutes(server.mux)
	server.serverAPI.RegisterRoutes(server.mux)
	return server
}

// ServeHTTP lets the server be used directly as a handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type ServeConfig struct {
	*MainConfig
	Addr string `cli:"name=addr desc='listen address (overrides server_addr in the config file)'"`

	Serve *cli.Command
}

// ServeCommand runs the preview server until interrupted.
func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve [-addr <addr>]").
		WithDescription("serve rendered templates and the management API").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Serve.Parse(cc, args); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	a, err := openApp(ctx, cfg.MainConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.config.Server.ServerAddr
	if cfg.Addr != "" {
		addr = cfg.Addr
	}
	httpServer := &http.Server{Addr: addr, Handler: NewServer(a)}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting preview server", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-sigCh:
		a.logger.Info("OS signal received, initiating shutdown.")
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("preview server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Preview server shutdown failed", "error", err)
	}
	a.logger.Info("Preview server stopped.")
	return nil
}
