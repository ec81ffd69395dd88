// Trackd is the main daemon of the Orbit Tracker fleet engine.
//
// It loads configuration, starts the HTTP/WebSocket server, and runs the
// tracking scheduler against either the builtin demo fleet or live data
// sources depending on config. Shutdown is handled gracefully on SIGINT
// or SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/skywatch-labs/orbit-tracker/internal/app"
	"github.com/skywatch-labs/orbit-tracker/internal/config"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "/etc/orbit-tracker/trackd.toml", "Path to config TOML")
		bind       = pflag.String("bind", "", "HTTP bind address (overrides server.bind)")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := log.New(os.Stdout, "trackd ", log.LstdFlags|log.Lmicroseconds)

	a := app.New(app.Options{
		Logger:     logger,
		Cfg:        cfg,
		ConfigPath: *configPath,
		Bind:       *bind,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("trackd failed: %v", err)
	}

	// Brief pause so in-flight log writes can flush before exit.
	time.Sleep(50 * time.Millisecond)
}
