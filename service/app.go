package service

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modboard/app/metrics"
	"modboard/app/repositories"
	"modboard/app/repositories/memory"
	"modboard/app/routes"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr     string
	dbPath   string
	inMemory bool
	seed     bool
}

func parseServeFlags(cfg Config, args []string, out io.Writer) (serveOptions, error) {
	opts := serveOptions{addr: cfg.Addr, dbPath: cfg.DBPath}
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	fs.StringVar(&opts.dbPath, "db", opts.dbPath, "badger database directory")
	fs.BoolVar(&opts.inMemory, "in-memory", false, "keep everything in memory")
	fs.BoolVar(&opts.seed, "seed", false, "load demo data into an empty store")
	if err := fs.Parse(args); err != nil {
		return serveOptions{}, err
	}
	return opts, nil
}

func openStore(opts serveOptions) (repositories.Store, error) {
	if opts.inMemory {
		return memory.NewStore(), nil
	}
	if err := os.MkdirAll(opts.dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return repositories.NewBadgerStore(opts.dbPath)
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// RunAppServer starts the API and blocks until SIGINT or SIGTERM.
func RunAppServer(cfg Config, args []string) int {
	opts, err := parseServeFlags(cfg, args, os.Stderr)
	if err != nil {
		return 2
	}
	if cfg.JWTSecret == "" {
		log.Println("MODBOARD_JWT_SECRET is not set")
		return 1
	}

	store, err := openStore(opts)
	if err != nil {
		log.Printf("Failed to open store: %v", err)
		return 1
	}
	defer store.Close()

	svc := routes.NewServices(store, metrics.New(), []byte(cfg.JWTSecret))
	if opts.seed {
		if err := Seed(svc); err != nil {
			log.Printf("Failed to seed store: %v", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, newServer(opts.addr, routes.SetupRoutes(svc))); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	return 0
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting modboard API on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
