package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lexfrei/plugcheck/pkg/api"
	"github.com/lexfrei/plugcheck/pkg/cron"
	"github.com/lexfrei/plugcheck/pkg/inventory"
	"github.com/lexfrei/plugcheck/pkg/metrics"
)

const refreshJobName = "inventory-refresh"

func newServeCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compatibility API over HTTP",
		Long: `Serve validate and plan requests over HTTP against the configured
inventory. The inventory snapshot is cached for --cache-ttl and reloaded on
--refresh-schedule. Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&c.cfg.Addr, "addr", c.cfg.Addr, "Address the API binds to")
	flags.DurationVar(&c.cfg.CacheTTL, "cache-ttl", c.cfg.CacheTTL, "How long an inventory snapshot is served")
	flags.StringVar(&c.cfg.RefreshSchedule, "refresh-schedule", c.cfg.RefreshSchedule,
		"Cron schedule for reloading the inventory; empty disables it")

	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	source, name, closeFn, err := c.openSource()
	if err != nil {
		return err
	}

	defer func() { _ = closeFn() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	recorder := metrics.NewPrometheusRecorder(reg)
	cached := inventory.NewCachedSource(name, source, c.cfg.CacheTTL, recorder)

	// Fail fast on a broken inventory instead of serving 503s.
	if _, err := cached.Refresh(ctx); err != nil {
		return err
	}

	server, err := api.NewServer(api.Options{
		Addr:     c.cfg.Addr,
		HostName: c.cfg.HostName,
		Source:   cached,
		Recorder: recorder,
		Gatherer: reg,
		Logger:   c.logger,
		VersionInfo: api.VersionInfo{
			Version:   buildVersion,
			GitCommit: buildCommit,
			BuildDate: buildDate,
		},
	})
	if err != nil {
		return err
	}

	runner := cron.NewRunner(cron.NewRealScheduler(), c.logger)

	if c.cfg.RefreshSchedule != "" {
		if _, err := runner.Schedule(refreshJobName, c.cfg.RefreshSchedule, func(ctx context.Context) error {
			_, err := cached.Refresh(ctx)

			return err
		}); err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return runner.Start(groupCtx) })
	group.Go(func() error { return server.Start(groupCtx) })

	return group.Wait()
}
