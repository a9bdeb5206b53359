// Command condrv-server runs the ConDrv console server against a
// driver handle passed on the command line, publishing viewport
// snapshots and servicing input/output requests until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	condrv "github.com/oconsole/go-condrv"
	"github.com/oconsole/go-condrv/internal/logging"
	"github.com/oconsole/go-condrv/internal/runtime"
)

func main() {
	var (
		verbose       = flag.Bool("v", false, "verbose output")
		width         = flag.Int("width", condrv.DefaultWidth, "screen buffer width in columns")
		height        = flag.Int("height", condrv.DefaultHeight, "screen buffer height in rows")
		clientCommand = flag.String("client", "", "client command line to launch (default: resolved from WINDIR)")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	if *clientCommand == "" {
		*clientCommand = runtime.ResolveDefaultClientCommand()
	}
	logger.Info("resolved client command", "command", *clientCommand)

	port, err := openPort()
	if err != nil {
		logger.Error("failed to open device-comm port", "error", err)
		os.Exit(1)
	}

	server, err := condrv.NewServer(condrv.ServerParams{
		Port:          port,
		Width:         *width,
		Height:        *height,
		ClientCommand: *clientCommand,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	go func() {
		for sig := range signals {
			if sig == syscall.SIGUSR1 {
				buf := make([]byte, 1<<16)
				n := runtime_Stack(buf)
				fmt.Fprintf(os.Stderr, "%s\n", buf[:n])
				continue
			}
			logger.Info("received signal, stopping", "signal", sig.String())
			cancel()
			return
		}
	}()

	logger.Info("starting condrv server")
	server.Start(ctx)
	server.Wait()
	logger.Info("condrv server stopped")
}

// runtime_Stack is a thin indirection over runtime/debug.Stack so the
// SIGUSR1 handler above reads naturally next to the rest of main.
func runtime_Stack(buf []byte) int {
	return copy(buf, debug.Stack())
}
