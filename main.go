package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"gesture-bridge/api"
	"gesture-bridge/config"
	"gesture-bridge/dispatch"
	"gesture-bridge/driver"
	"gesture-bridge/logger"
	"gesture-bridge/media"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 1. Load Config
	cfg, loader, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		return 2
	}

	// 2. Initialize Logger
	if err := logger.Init(cfg.Log.Dir); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		return 1
	}
	defer logger.Close()
	logger.SetDebug(cfg.Log.Debug)
	if f := loader.ConfigFile(); f != "" {
		logger.Info("Using config file %s", f)
	}
	loader.Watch(func(c *config.Config) {
		if c.Log.Debug != logger.DebugEnabled() {
			logger.SetDebug(c.Log.Debug)
			logger.Info("Config reloaded (debug=%t)", c.Log.Debug)
		}
	}, func(err error) {
		logger.Error("Ignoring config change: %v", err)
	})

	// 3. Select Port
	portName := cfg.Serial.Port
	if portName == "" {
		portName = driver.DetectPort()
	}

	// 4. Select Media Controller
	var ctrl media.Controller
	if cfg.Media.DryRun {
		ctrl = media.NewRecorder()
	} else {
		ctrl = media.New()
	}
	if d, ok := ctrl.(media.Describer); ok {
		logger.Info("Media control: %s", d.Describe())
	}

	// 5. Wire Manager and Dispatcher
	manager := driver.NewManager(portName, cfg.BaudRate)
	manager.Backoff = cfg.Serial.Backoff

	dispatcher := dispatch.New(ctrl)
	dispatcher.ActionTimeout = cfg.Media.ActionTimeout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Start Status Server
	if cfg.Status.Addr != "" {
		hub := api.NewHub()
		hub.PublishStatus(manager.State().GetStatusInfo())
		manager.State().SetCallback(hub.PublishStatus)
		dispatcher.OnResult = hub.PublishResult

		srv := &http.Server{Addr: cfg.Status.Addr, Handler: hub.Handler()}
		go func() {
			logger.Info("Status feed listening on %s", cfg.Status.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Status server: %v", err)
			}
		}()
		defer shutdownStatus(srv, time.Second)
	}

	// 7. Run until interrupted
	manager.Run(ctx, dispatcher.HandleLine)
	return 0
}

// shutdownStatus stops the status server, waiting up to timeout for open
// requests.
func shutdownStatus(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Status server shutdown: %v", err)
		return err
	}
	return nil
}
