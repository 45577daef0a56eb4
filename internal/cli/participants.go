package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	checkmango "github.com/checkmango/checkmango-go"
)

func (a *app) participantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "participants",
		Aliases: []string{"participant"},
		Short:   "Manage participants and their enrolments",
	}
	cmd.AddCommand(
		a.participantsListCommand(),
		a.participantsGetCommand(),
		a.participantsCreateCommand(),
		a.participantsUpdateCommand(),
		a.participantsDeleteCommand(),
		a.participantsExperimentsCommand(),
		a.participantsEnrolmentCommand(),
		a.participantsUnenrolCommand(),
	)
	return cmd
}

func (a *app) participantsListCommand() *cobra.Command {
	var opts checkmango.ListParticipantsOptions
	var include []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List participants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Include = includes[checkmango.ParticipantInclude](include)
			resp, err := client.ListParticipants(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, participantTable(resp.Data...))
		},
	}
	pageFlags(cmd, &opts.Pagination)
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: experiments, experiments.variants, team")
	return cmd
}

func (a *app) participantsGetCommand() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Show a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			resp, err := client.GetParticipant(cmd.Context(), checkmango.GetParticipantOptions{
				Key:     args[0],
				Include: includes[checkmango.ParticipantInclude](include),
			})
			if err != nil {
				return err
			}
			return a.printer.print(resp, participantTable(resp.Data))
		},
	}
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: experiments, experiments.variants, team")
	return cmd
}

func (a *app) participantsCreateCommand() *cobra.Command {
	var opts checkmango.CreateParticipantOptions

	cmd := &cobra.Command{
		Use:   "create <key>",
		Short: "Register a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Key = args[0]
			resp, err := client.CreateParticipant(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, participantTable(resp.Data))
		},
	}
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "Free-form notes")
	return cmd
}

func (a *app) participantsUpdateCommand() *cobra.Command {
	var opts checkmango.UpdateParticipantOptions

	cmd := &cobra.Command{
		Use:   "update <key>",
		Short: "Change a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Participant = args[0]
			resp, err := client.UpdateParticipant(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, participantTable(resp.Data))
		},
	}
	cmd.Flags().StringVar(&opts.Key, "key", "", "New key")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "New notes")
	return cmd
}

func (a *app) participantsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			if err := client.DeleteParticipant(cmd.Context(), checkmango.DeleteParticipantOptions{Key: args[0]}); err != nil {
				return err
			}
			return a.printer.message(deleted("participant", args[0]), "Deleted participant %s", args[0])
		},
	}
}

func (a *app) participantsExperimentsCommand() *cobra.Command {
	var opts checkmango.ListParticipantExperimentsOptions
	var include []string

	cmd := &cobra.Command{
		Use:   "experiments <participant>",
		Short: "List the experiments a participant is enrolled in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Participant = args[0]
			opts.Include = includes[checkmango.EnrolmentInclude](include)
			resp, err := client.ListParticipantExperiments(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, enrolmentTable(resp.Data...))
		},
	}
	pageFlags(cmd, &opts.Pagination)
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: experiment, team, variant")
	return cmd
}

func (a *app) participantsEnrolmentCommand() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "enrolment <participant> <experiment>",
		Short: "Show a participant's enrolment in an experiment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			resp, err := client.GetParticipantExperiment(cmd.Context(), checkmango.GetParticipantExperimentOptions{
				Participant: args[0],
				Experiment:  args[1],
				Include:     includes[checkmango.EnrolmentInclude](include),
			})
			if err != nil {
				return err
			}
			return a.printer.print(resp, enrolmentTable(resp.Data))
		},
	}
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: experiment, team, variant")
	return cmd
}

func (a *app) participantsUnenrolCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unenrol <participant> <experiment>",
		Short: "Remove a participant from an experiment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			err = client.UnenrolParticipant(cmd.Context(), checkmango.UnenrolParticipantOptions{
				Participant: args[0],
				Experiment:  args[1],
			})
			if err != nil {
				return err
			}
			return a.printer.message(
				map[string]any{"unenrolled": true, "participant": args[0], "experiment": args[1]},
				"Unenrolled %s from %s", args[0], args[1],
			)
		},
	}
}

func participantTable(participants ...checkmango.Participant) table {
	t := table{headers: []string{"KEY", "NOTES", "CREATED"}}
	for _, p := range participants {
		attrs := p.Attributes
		t.rows = append(t.rows, []string{attrs.Key, orDash(attrs.Notes), orDash(attrs.Created.Human)})
	}
	return t
}

func enrolmentTable(enrolments ...checkmango.Enrolment) table {
	t := table{headers: []string{"TYPE", "ID", "KEY", "VARIANT"}}
	for _, e := range enrolments {
		t.rows = append(t.rows, []string{
			e.Type,
			e.ID,
			attribute(e.Attributes, "key"),
			attribute(e.Attributes, "variant"),
		})
	}
	return t
}

// attribute renders a free-form attribute, "-" when absent.
func attribute(attrs checkmango.Object, name string) string {
	value, ok := attrs[name]
	if !ok || value == nil {
		return "-"
	}
	return fmt.Sprint(value)
}
