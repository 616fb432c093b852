package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gunzone/internal/metrics"
	"github.com/vovakirdan/gunzone/internal/netplay"
	"github.com/vovakirdan/gunzone/internal/platform/tui"
)

var (
	flagSSHAddr       string
	flagHTTPAddr      string
	flagHostKey       string
	flagIdleTimeout   int
	flagSnapshotEvery int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and web servers",
	Long: `Start servers that let remote players join.

  --ssh   Each SSH connection gets its own session with the mode picker.
  --http  Browsers connect to /ws?mode=arena and play over a websocket;
          /api/runs, /api/stats and /api/stash expose the database and
          /metrics exposes Prometheus metrics.

Runs are stored per server (all players share the same database and stash).
At least one of --ssh or --http must be set; both may run together.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.gunzone/host_key

Examples:
  gunzone serve --ssh :23234
  gunzone serve --http :8080
  gunzone serve --ssh :2222 --http :8080 --db ./gunzone.db

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "Web server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagSnapshotEvery, "snapshot-every", 3, "Ticks between web state snapshots")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		return errors.New("nothing to serve: set --ssh and/or --http")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tickRate := flagFPS
	if tickRate <= 0 {
		tickRate = cfg.TickRate
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	applyStash(store, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	running := 0

	if flagSSHAddr != "" {
		sshSrv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			Store:       store,
			Game:        cfg,
			TickRate:    tickRate,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		})
		if err != nil {
			return fmt.Errorf("creating SSH server: %w", err)
		}
		running++
		go func() { errCh <- sshSrv.ListenAndServe(ctx) }()
		fmt.Printf("Connect with: ssh localhost -p %s\n", port(flagSSHAddr))
	}

	if flagHTTPAddr != "" {
		webLogger := logger.WithPrefix("gunzone-web")
		webSrv := netplay.NewServer(netplay.Options{
			Config:        cfg,
			Store:         store,
			Metrics:       metrics.New(),
			Logger:        webLogger,
			TickRate:      tickRate,
			SnapshotEvery: flagSnapshotEvery,
		})
		running++
		go func() { errCh <- webSrv.ListenAndServe(ctx, flagHTTPAddr) }()
		fmt.Printf("Open ws://localhost:%s/ws?mode=arena\n", port(flagHTTPAddr))
	}
	fmt.Println("Press Ctrl+C to stop")

	// The first failure stops every server.
	var firstErr error
	for range running {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			logger.Error("server stopped", "error", err)
			stop()
		}
	}
	return firstErr
}

// port returns the port part of a listen address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
