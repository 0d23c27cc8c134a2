package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/adapters/smtpinbox"
	"github.com/mikey/inbox-radio/internal/inbox"
	"github.com/mikey/inbox-radio/internal/metrics"
	"github.com/mikey/inbox-radio/internal/mute"
	"github.com/mikey/inbox-radio/internal/ports"
)

type inboxOptions struct {
	mode       string
	voice      string
	maxResults int
}

func newInboxCmd(root *rootOptions) *cobra.Command {
	opts := &inboxOptions{}

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Run an SMTP drop-box and digest its mail on SIGHUP",
		Long: `Accept mail over SMTP into an in-memory mailbox. Each SIGHUP digests the
unread messages into the configured output directory and marks them read.
Prometheus metrics are served on /metrics when enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup()
			if err != nil {
				return err
			}
			defer a.close()
			return opts.run(cmd, a)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "", "digest mode: auto, morning or evening (default from config)")
	cmd.Flags().StringVar(&opts.voice, "voice", "", "voice id for the TTS provider (default from config)")
	cmd.Flags().IntVar(&opts.maxResults, "max-results", inbox.DefaultMaxResults, "maximum messages per digest")

	return cmd
}

func (o *inboxOptions) run(cmd *cobra.Command, a *app) error {
	runOpts, err := resolveRunOptions(a, o.mode, o.voice)
	if err != nil {
		return err
	}
	digestCfg, err := a.cfg.GetDigest()
	if err != nil {
		return err
	}
	smtpCfg, err := a.cfg.GetSMTPInbox()
	if err != nil {
		return err
	}
	metricsCfg := a.cfg.GetMetrics()
	logger := a.logger

	return a.container.Invoke(func(runner ports.DigestRunner, checker *mute.Checker, reg *prometheus.Registry) error {
		mailbox := smtpinbox.NewMailbox()
		server := smtpinbox.NewServer(mailbox, smtpinbox.Options{
			ListenAddress:   smtpCfg.ListenAddress,
			Domain:          smtpCfg.Domain,
			MaxMessageBytes: smtpCfg.MaxMessageBytes,
			MaxRecipients:   smtpCfg.MaxRecipients,
			ReadTimeout:     smtpCfg.ReadTimeout,
			WriteTimeout:    smtpCfg.WriteTimeout,
		}, logger)

		if err := server.Start(); err != nil {
			return err
		}
		defer func() {
			if err := server.Stop(); err != nil {
				logger.Error("Failed to stop SMTP server", zap.Error(err))
			}
		}()

		if metricsCfg.Enabled {
			metricsServer := startMetricsServer(metricsCfg.ListenAddress, reg, logger)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = metricsServer.Shutdown(ctx)
			}()
		}

		digest := &dropboxDigest{
			mailbox:    mailbox,
			fetcher:    inbox.NewFetcher(mailbox, nil, checker, logger),
			runner:     runner,
			opts:       runOpts,
			cutoffHour: digestCfg.EveningCutoffHour,
			maxResults: o.maxResults,
			outputDir:  smtpCfg.OutputDir,
			now:        func() time.Time { return time.Now().In(digestCfg.Location) },
			logger:     logger,
		}

		logger.Info("Drop-box ready, send SIGHUP to produce a digest",
			zap.String("smtp", server.Addr()),
			zap.String("provider", runner.ProviderName()))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		ctx := cmd.Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case sig := <-sigCh:
				if sig != syscall.SIGHUP {
					logger.Info("Shutting down...")
					return nil
				}
				if _, err := digest.Run(ctx); err != nil {
					logger.Error("Drop-box digest failed", zap.Error(err))
				}
			}
		}
	})
}

func startMetricsServer(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Serving metrics", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
