package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/insightbox-cli/internal/server"
	"github.com/KaramelBytes/insightbox-cli/internal/session"
)

var (
	svAddr     string
	svTTLMin   int
	svUploadMB int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP console with one cleaning session per upload",
	RunE: func(cmd *cobra.Command, args []string) error {
		parseOpt, err := parseOptions()
		if err != nil {
			return err
		}
		addr, ttlMin, uploadMB := ":8080", 60, 200
		if cfg != nil {
			if cfg.ServerAddr != "" {
				addr = cfg.ServerAddr
			}
			if cfg.SessionTTLMin > 0 {
				ttlMin = cfg.SessionTTLMin
			}
			if cfg.MaxUploadMB > 0 {
				uploadMB = cfg.MaxUploadMB
			}
		}
		f := cmd.Flags()
		if f.Changed("addr") {
			addr = svAddr
		}
		if f.Changed("ttl") {
			ttlMin = svTTLMin
		}
		if f.Changed("max-upload-mb") {
			uploadMB = svUploadMB
		}

		ttl := time.Duration(ttlMin) * time.Minute
		store := session.NewStore(ttl, logger)
		opt := server.Options{
			Addr:           addr,
			MaxUploadBytes: int64(uploadMB) << 20,
			Parse:          parseOpt,
			Analysis:       analysisOptions(cmd),
		}
		if cfg != nil {
			opt.HistogramBins = cfg.HistogramBins
		}
		if ttl > 0 {
			opt.SweepEvery = ttl / 4
			if opt.SweepEvery < time.Minute {
				opt.SweepEvery = time.Minute
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(store, opt, logger).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&svAddr, "addr", ":8080", "listen address (overrides config)")
	serveCmd.Flags().IntVar(&svTTLMin, "ttl", 60, "minutes an idle session is kept (0 = forever)")
	serveCmd.Flags().IntVar(&svUploadMB, "max-upload-mb", 200, "largest accepted upload in MB")
}
