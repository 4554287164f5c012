package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlansCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage saved plans",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved plans",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.service(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range svc.ListPlans() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Print a saved plan as YAML",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.service(cmd.Context())
				if err != nil {
					return err
				}
				plan, err := svc.GetPlan(args[0])
				if err != nil {
					return err
				}
				b, err := yaml.Marshal(plan)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			},
		},
		newPlansSaveCmd(app),
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a saved plan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := app.service(cmd.Context())
				if err != nil {
					return err
				}
				if err := svc.DeletePlan(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %q\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newPlansSaveCmd(app *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "save PLAN_FILE",
		Short: "Save a plan file under its name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := app.parser().LoadPayloadFromFile(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				payload["name"] = name
			}
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			saved, err := svc.SavePlan(payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved plan %q\n", saved)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "save under this name instead of the file's name field")
	return cmd
}
