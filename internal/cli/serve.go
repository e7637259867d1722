package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/anger-log/internal/httpapi"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Serve the journal API, distortion analysis, health and metrics endpoints until interrupted.",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	a, err := openApp(cmd, false)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		a.cfg.Server.Addr = addr
	}

	srv, err := httpapi.NewServer(a.svc, a.logger.Named("http"), &httpapi.Config{
		Addr:            a.cfg.Server.Addr,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		AnalyzeRate:     a.cfg.Server.AnalyzeRate,
	})
	if err != nil {
		exitErr("serve", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting anger-log",
		zap.String("store", a.cfg.Store.Driver),
		zap.String("db", a.cfg.Store.Path))
	if err := srv.Run(ctx); err != nil {
		a.logger.Error("server stopped", zap.Error(err))
		a.Close()
		os.Exit(1)
	}
}
