package cli

import (
	"github.com/spf13/cobra"

	checkmango "github.com/checkmango/checkmango-go"
)

func (a *app) eventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Manage goal events",
	}
	cmd.AddCommand(
		a.eventsListCommand(),
		a.eventsGetCommand(),
		a.eventsCreateCommand(),
		a.eventsUpdateCommand(),
		a.eventsDeleteCommand(),
	)
	return cmd
}

func (a *app) eventsListCommand() *cobra.Command {
	var opts checkmango.ListEventsOptions
	var include []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Include = includes[checkmango.EventInclude](include)
			resp, err := client.ListEvents(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, eventTable(resp.Data...))
		},
	}
	pageFlags(cmd, &opts.Pagination)
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: experiments, team")
	return cmd
}

func (a *app) eventsGetCommand() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Show an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			resp, err := client.GetEvent(cmd.Context(), checkmango.GetEventOptions{
				Key:     args[0],
				Include: includes[checkmango.EventInclude](include),
			})
			if err != nil {
				return err
			}
			return a.printer.print(resp, eventTable(resp.Data))
		},
	}
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: experiments, team")
	return cmd
}

func (a *app) eventsCreateCommand() *cobra.Command {
	var opts checkmango.CreateEventOptions
	var eventType string

	cmd := &cobra.Command{
		Use:   "create <key>",
		Short: "Create an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Key = args[0]
			opts.Type = checkmango.EventType(eventType)
			resp, err := client.CreateEvent(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, eventTable(resp.Data))
		},
	}
	cmd.Flags().StringVar(&opts.Description, "description", "", "Description")
	cmd.Flags().StringVar(&eventType, "type", "", "How conversions are counted: unique, count")
	return cmd
}

func (a *app) eventsUpdateCommand() *cobra.Command {
	var opts checkmango.UpdateEventOptions
	var eventType string

	cmd := &cobra.Command{
		Use:   "update <key>",
		Short: "Change an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Event = args[0]
			opts.Type = checkmango.EventType(eventType)
			resp, err := client.UpdateEvent(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, eventTable(resp.Data))
		},
	}
	cmd.Flags().StringVar(&opts.Key, "key", "", "New key")
	cmd.Flags().StringVar(&opts.Description, "description", "", "New description")
	cmd.Flags().StringVar(&eventType, "type", "", "New type: unique, count")
	return cmd
}

func (a *app) eventsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			if err := client.DeleteEvent(cmd.Context(), checkmango.DeleteEventOptions{Key: args[0]}); err != nil {
				return err
			}
			return a.printer.message(deleted("event", args[0]), "Deleted event %s", args[0])
		},
	}
}

func eventTable(events ...checkmango.Event) table {
	t := table{headers: []string{"KEY", "TYPE", "DESCRIPTION"}}
	for _, e := range events {
		attrs := e.Attributes
		t.rows = append(t.rows, []string{attrs.Key, orDash(string(attrs.Type)), orDash(attrs.Description)})
	}
	return t
}
