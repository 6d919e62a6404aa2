package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adh/bscmp"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "serve":
		if err := runServe(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "secret":
		if err := runSecret(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("bscmp version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bscmp - Bootstrap components with URL state

Usage:
  bscmp <command> [arguments]

Commands:
  serve       Run the demo server
  secret      Print a random application secret
  version     Print version
  help        Show this help

Options for serve:
  -config     YAML configuration file
  -addr       Listen address (overrides the config)

Environment:
  BSCMP_SECRET   Application secret
  BSCMP_ADDR     Listen address

Examples:
  BSCMP_SECRET=$(bscmp secret) bscmp serve
  bscmp serve -config bscmp.yaml -addr :9000`)
}

func runSecret() error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return err
	}
	fmt.Println(base64.RawURLEncoding.EncodeToString(key))
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	addr := fs.String("addr", "", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger, err := cfg.logger(os.Stderr)
	if err != nil {
		return err
	}

	handler, err := newServer(cfg, NewStore(), bscmp.WithLogger(logger))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer builds the demo router. Metrics are served on /metrics when
// enabled.
func newServer(cfg *Config, store *Store, opts ...bscmp.RegistryOption) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if cfg.Metrics {
		promReg := prometheus.NewRegistry()
		opts = append(opts, bscmp.WithMetrics(bscmp.NewMetrics(promReg)))
		r.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	}

	reg, err := newRegistry(cfg, opts...)
	if err != nil {
		return nil, err
	}

	a := &app{store: store, reg: reg}
	a.routes(r)
	return r, nil
}
