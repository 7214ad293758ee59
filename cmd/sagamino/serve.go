package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"sagamino/internal/network"
	"sagamino/internal/web"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the animation state, network GeoJSON and metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("host") {
			serveHost = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") {
			servePort = cfg.Server.Port
		}

		logger, closeLog, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		reg, err := loadRegistry(logger)
		if err != nil {
			return err
		}

		promReg := prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := web.NewMetrics(promReg)
		if err != nil {
			return err
		}

		ctrl := network.NewController(reg, nil,
			network.WithSpeed(cfg.Animation.Speed),
			network.WithLogger(logger),
			network.WithWideBounds(cfg.View.Wide.Bound()),
		)
		metrics.Watch(ctrl)

		srv := &web.Server{
			Loop:    network.NewLoop(ctrl, cfg.Animation.FrameInterval()),
			Initial: cfg.View.Initial.Bound(),
			Metrics: metrics,
			Logger:  logger,
			Addr:    fmt.Sprintf("%s:%d", serveHost, servePort),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
