package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpgo/household-planner/internal/api"
	"github.com/rpgo/household-planner/internal/config"
	"github.com/rpgo/household-planner/internal/output"
	"github.com/rpgo/household-planner/pkg/dateutil"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMonthsCmd(app *App) *cobra.Command {
	var startYear, years int
	cmd := &cobra.Command{
		Use:   "months",
		Short: "List the selectable months of a plan horizon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range dateutil.GenerateMonthOptions(startYear, years) {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&startYear, "start-year", config.DefaultStartYear, "first plan year")
	cmd.Flags().IntVar(&years, "years", config.DefaultYears, "plan horizon in years")
	return cmd
}

func newExampleCmd(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print (or write) the default household plan as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := app.parser().CreateExamplePayload()
			if file != "" {
				if err := output.SavePlan(payload, file); err != nil {
					return fmt.Errorf("writing example plan: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example plan written to %s\n", file)
				return nil
			}
			b, err := yaml.Marshal(payload)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "output", "o", "", "write the plan to this file")
	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			s, err := app.settings()
			if err != nil {
				return err
			}
			if addr != "" {
				s.HTTPAddr = addr
			}
			logger := app.logger()
			handler := api.NewHandler(svc, logger, s.DefaultFreq)
			server := api.NewServer(s, api.NewRouter(handler))

			errCh := make(chan error, 1)
			go func() {
				logger.Infof("Starting server on %s", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings)")
	return cmd
}
