package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/deskops/helpdesk-groups/pkg/app"
	"github.com/deskops/helpdesk-groups/pkg/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
)

var rootCmd = &cobra.Command{
	Use:           "helpdesk-groups [flags]",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("helpdesk-groups %s\n", version.GetInfo().String())
	},
}

var cmdRun = &cobra.Command{
	Use:   "run [args]",
	Short: "Start helpdesk groups service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return start(cmd.Context(), flagConfigPath)
	},
}

// nolint: gochecknoinits
func init() {
	cmdRun.Flags().StringVarP(&flagConfigPath, "config", "c", "", "config path")
	rootCmd.AddCommand(cmdRun, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err.Error())
	}
}

func start(ctx context.Context, cfgPath string) error {
	srv, err := app.NewGroupsServer(cfgPath, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Run(ctx)
	}()

	select {
	case err := <-errCh:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout())
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)

		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
