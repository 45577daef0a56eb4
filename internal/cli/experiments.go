package cli

import (
	"github.com/spf13/cobra"

	checkmango "github.com/checkmango/checkmango-go"
)

func (a *app) experimentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experiments",
		Aliases: []string{"experiment", "exp"},
		Short:   "Manage experiments",
	}
	cmd.AddCommand(
		a.experimentsListCommand(),
		a.experimentsGetCommand(),
		a.experimentsCreateCommand(),
		a.experimentsUpdateCommand(),
		a.experimentsDeleteCommand(),
		a.experimentsStartCommand(),
		a.experimentsStopCommand(),
	)
	return cmd
}

func (a *app) experimentsListCommand() *cobra.Command {
	var opts checkmango.ListExperimentsOptions
	var include []string
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List experiments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Include = includes[checkmango.ExperimentInclude](include)
			opts.Status = checkmango.ExperimentStatus(status)
			resp, err := client.ListExperiments(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, experimentTable(resp.Data...))
		},
	}
	pageFlags(cmd, &opts.Pagination)
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: event, team, variants")
	cmd.Flags().StringVar(&status, "status", "", "Only list experiments in this state: draft, running, stopped")
	return cmd
}

func (a *app) experimentsGetCommand() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Show an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			resp, err := client.GetExperiment(cmd.Context(), checkmango.GetExperimentOptions{
				Key:     args[0],
				Include: includes[checkmango.ExperimentInclude](include),
			})
			if err != nil {
				return err
			}
			return a.printer.print(resp, experimentTable(resp.Data))
		},
	}
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: event, team, variants")
	return cmd
}

func (a *app) experimentsCreateCommand() *cobra.Command {
	var opts checkmango.CreateExperimentOptions

	cmd := &cobra.Command{
		Use:   "create <key>",
		Short: "Create a draft experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Key = args[0]
			resp, err := client.CreateExperiment(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, experimentTable(resp.Data))
		},
	}
	cmd.Flags().StringVar(&opts.Event, "event", "", "Key of the goal event (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Description")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func (a *app) experimentsUpdateCommand() *cobra.Command {
	var opts checkmango.UpdateExperimentOptions

	cmd := &cobra.Command{
		Use:   "update <key>",
		Short: "Change an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Experiment = args[0]
			resp, err := client.UpdateExperiment(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, experimentTable(resp.Data))
		},
	}
	cmd.Flags().StringVar(&opts.Key, "key", "", "New key")
	cmd.Flags().StringVar(&opts.Event, "event", "", "New goal event key")
	cmd.Flags().StringVar(&opts.Description, "description", "", "New description")
	return cmd
}

func (a *app) experimentsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			if err := client.DeleteExperiment(cmd.Context(), checkmango.DeleteExperimentOptions{Key: args[0]}); err != nil {
				return err
			}
			return a.printer.message(deleted("experiment", args[0]), "Deleted experiment %s", args[0])
		},
	}
}

func (a *app) experimentsStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <key>",
		Short: "Start an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			resp, err := client.StartExperiment(cmd.Context(), checkmango.StartExperimentOptions{Key: args[0]})
			if err != nil {
				return err
			}
			return a.printer.print(resp, experimentTable(resp.Data))
		},
	}
}

func (a *app) experimentsStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <key>",
		Short: "Stop a running experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			resp, err := client.StopExperiment(cmd.Context(), checkmango.StopExperimentOptions{Key: args[0]})
			if err != nil {
				return err
			}
			return a.printer.print(resp, experimentTable(resp.Data))
		},
	}
}

func experimentTable(experiments ...checkmango.Experiment) table {
	t := table{headers: []string{"KEY", "STATUS", "DESCRIPTION", "STARTED"}}
	for _, exp := range experiments {
		attrs := exp.Attributes
		started := "-"
		if attrs.Started != nil {
			started = orDash(attrs.Started.String)
		}
		t.rows = append(t.rows, []string{attrs.Key, string(attrs.Status), orDash(attrs.Description), started})
	}
	return t
}

// deleted is the JSON output of delete commands.
func deleted(kind, key string) map[string]any {
	return map[string]any{"deleted": true, "type": kind, "key": key}
}
