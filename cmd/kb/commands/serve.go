package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/server"
	"github.com/dev-thandabantu/AakiTech-Internal-Knowledge-Base/internal/watcher"
)

// NewServeCmd creates the serve command.
func NewServeCmd(opts *globalOptions) *cobra.Command {
	var (
		flags indexFlags
		host  string
		port  int
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and HTTP API",
		Long: `Serve the search page on / and the JSON API under /api/v1:

  POST /api/v1/search   {"query": "...", "limit": 3, "provider": "onnx"}
  GET  /api/v1/status
  POST /api/v1/ingest   rebuild from the configured ingest directory
  GET  /health

With --watch, the ingest directory is rebuilt automatically shortly after
its .txt files change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, &flags)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			c, err := newComponents(cfg, false)
			if err != nil {
				return err
			}
			defer c.Close()
			c.Logger.Info("config loaded",
				zap.String("config_path", opts.configPath),
				zap.String("index", cfg.Index.Path),
				zap.String("backend", cfg.Index.Backend),
				zap.String("provider", cfg.Embedding.Provider),
				zap.Bool("debug", cfg.Debug),
			)

			idx, emb, err := c.newIndexer()
			if err != nil {
				// Searching still works with other providers; only HTTP ingest is lost.
				c.Logger.Warn("ingest endpoint disabled", zap.Error(err))
			} else {
				defer emb.Close()
			}
			var ingester server.Ingester
			if idx != nil {
				ingester = idx
			}
			srv := server.NewServer(c.Engine, ingester, cfg, c.Logger)

			watchCtx, stopWatch := context.WithCancel(context.Background())
			defer stopWatch()
			if watch {
				if ingester == nil {
					return fmt.Errorf("--watch needs a working %s embedder for ingest", cfg.Embedding.Provider)
				}
				w := watcher.New(cfg.Ingest.Directory, cfg.Ingest.Extensions, func() {
					_, _ = srv.Reingest(watchCtx)
				}, watcher.WithLogger(c.Logger))
				if err := w.Start(watchCtx); err != nil {
					return err
				}
				defer w.Stop()
			}

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			select {
			case err := <-errCh:
				return err
			case <-sigChan:
			}

			c.Logger.Info("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(ctx)
		},
	}
	addIndexFlags(cmd, &flags)
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild the index when documents in the ingest directory change")
	return cmd
}
