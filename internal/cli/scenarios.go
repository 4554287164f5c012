package cli

import (
	"fmt"

	"github.com/rpgo/household-planner/internal/domain"
	"github.com/spf13/cobra"
)

func newScenariosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Inspect and manage stored scenarios",
	}
	cmd.AddCommand(
		newScenariosListCmd(app),
		newScenariosReportCmd(app),
		newScenariosDeleteCmd(app),
		newScenariosClearCmd(app),
	)
	return cmd
}

func newScenariosListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scenarios in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			names := svc.ScenarioNames()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scenarios stored.")
				return nil
			}
			for _, name := range names {
				months, _ := svc.ScenarioMonths(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d months\n", name, len(months))
			}
			return nil
		},
	}
}

func newScenariosReportCmd(app *App) *cobra.Command {
	var (
		freq      string
		format    string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report every stored scenario aggregated by period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			if freq == "" {
				freq = app.defaultFreq()
			}
			report, err := svc.Aggregated(domain.ParseFrequency(freq))
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, format, outputDir)
		},
	}
	cmd.Flags().StringVarP(&freq, "freq", "f", "", "reporting frequency: M, Q or Y (default from settings)")
	cmd.Flags().StringVar(&format, "format", "console", "output format")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write a timestamped report file here instead of printing")
	return cmd
}

func newScenariosDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete one stored scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.DeleteScenario(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted scenario %q\n", args[0])
			return nil
		},
	}
}

func newScenariosClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.ClearScenarios(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All scenarios cleared.")
			return nil
		},
	}
}
