package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/household-planner/internal/calculation"
	"github.com/rpgo/household-planner/internal/config"
	"github.com/rpgo/household-planner/internal/domain"
	"github.com/rpgo/household-planner/internal/output"
	"github.com/rpgo/household-planner/internal/service"
	"github.com/spf13/cobra"
)

func newSimulateCmd(app *App) *cobra.Command {
	var (
		freq      string
		format    string
		outputDir string
		save      bool
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "simulate PLAN_FILE [PLAN_FILE...]",
		Short: "Simulate one or more plan files and print the aggregated report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payloads := make([]config.Payload, 0, len(args))
			for _, file := range args {
				p, err := app.parser().LoadPayloadFromFile(file)
				if err != nil {
					return err
				}
				payloads = append(payloads, p)
			}

			var svc *service.Service
			if save {
				var err error
				if svc, err = app.service(cmd.Context()); err != nil {
					return err
				}
			} else {
				// Scratch run: results are not added to the scenario store
				engine := calculation.NewSimulationEngine()
				engine.SetLogger(app.logger())
				svc = service.New(service.Deps{Engine: engine, Parser: app.parser(), Logger: app.logger()})
			}
			svc.SetDebug(debug)

			report, err := svc.AddScenarios(cmd.Context(), payloads, domain.ParseFrequency(freq))
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			return writeReport(cmd.OutOrStdout(), report, format, outputDir)
		},
	}

	cmd.Flags().StringVarP(&freq, "freq", "f", "Q", "reporting frequency: M, Q or Y")
	cmd.Flags().StringVar(&format, "format", "console", "output format: "+strings.Join(output.AvailableFormatterNames(), ", ")+" or all")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write a timestamped report file here instead of printing")
	cmd.Flags().BoolVar(&save, "save", false, "add the results to the scenario store")
	cmd.Flags().BoolVar(&debug, "debug", false, "log a per-month trace at debug level")
	return cmd
}

// writeReport prints the report, or writes it to outputDir when one is given
func writeReport(w io.Writer, report *domain.Report, format, outputDir string) error {
	if outputDir != "" || strings.EqualFold(strings.TrimSpace(format), "all") {
		files, err := output.GenerateReport(report, format, outputDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(w, "Report written to %s\n", f)
		}
		return nil
	}
	data, err := output.Render(report, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
