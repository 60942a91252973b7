package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"stencil-snap/internal/logger"
	"stencil-snap/internal/server"
)

const (
	AppName    = "stencil-snap"
	AppVersion = "1.0.0"

	shutdownTimeout = 15 * time.Second
)

func main() {
	configureRuntime()

	appLogger := newLogger()
	config := loadConfig()

	appLogger.Info("Main", "starting", map[string]interface{}{
		"app":        AppName,
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"addr":       config.Addr,
	})

	srv := server.New(config, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

		sig := <-sigChan
		appLogger.Info("Main", "signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		cancel()
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Main", err, nil)
			os.Exit(1)
		}
	}

	appLogger.Info("Main", "stopped", nil)
}

// configureRuntime tunes the Go runtime for image processing workloads.
func configureRuntime() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Large transient Mat allocations; raise the GC target.
	debug.SetGCPercent(200)

	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(4 << 30)
	}
}

func newLogger() logger.Logger {
	level := logger.LevelFromEnv()
	if os.Getenv("DEBUG") == "1" {
		return logger.NewConsoleLogger(level)
	}
	return logger.NewServiceLogger(level)
}

func loadConfig() server.Config {
	config := server.DefaultConfig()

	if addr := os.Getenv("STENCIL_ADDR"); addr != "" {
		config.Addr = addr
	}

	if raw := os.Getenv("STENCIL_MAX_UPLOAD"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			config.MaxUploadBytes = v
		}
	}

	return config
}
