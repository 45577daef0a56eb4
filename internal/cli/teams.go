package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	checkmango "github.com/checkmango/checkmango-go"
)

func (a *app) userCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Show the user the API key belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(false)
			if err != nil {
				return err
			}
			resp, err := client.GetUser(cmd.Context())
			if err != nil {
				return err
			}
			return a.printer.print(resp, table{
				headers: []string{"ID", "NAME", "EMAIL"},
				rows:    [][]string{{resp.Data.ID, resp.Data.Attributes.Name, resp.Data.Attributes.Email}},
			})
		},
	}
}

func (a *app) teamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"team"},
		Short:   "Inspect teams",
	}
	cmd.AddCommand(a.teamsListCommand(), a.teamsGetCommand(), a.teamsCurrentCommand())
	return cmd
}

func (a *app) teamsListCommand() *cobra.Command {
	var opts checkmango.ListTeamsOptions
	var include []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(false)
			if err != nil {
				return err
			}
			opts.Include = includes[checkmango.TeamInclude](include)
			resp, err := client.ListTeams(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, teamTable(resp.Data...))
		},
	}
	pageFlags(cmd, &opts.Pagination)
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: events, experiments, experiments.variants, participants")
	return cmd
}

func (a *app) teamsGetCommand() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "get <team-id>",
		Short: "Show a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			client, err := a.client(false)
			if err != nil {
				return err
			}
			resp, err := client.GetTeam(cmd.Context(), checkmango.GetTeamOptions{
				ID:      id,
				Include: includes[checkmango.TeamInclude](include),
			})
			if err != nil {
				return err
			}
			return a.printer.print(resp, teamTable(resp.Data))
		},
	}
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include")
	return cmd
}

func (a *app) teamsCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show your current team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(false)
			if err != nil {
				return err
			}
			resp, err := client.GetCurrentTeam(cmd.Context())
			if err != nil {
				return err
			}
			return a.printer.print(resp, teamTable(resp.Data))
		},
	}
}

func teamTable(teams ...checkmango.Team) table {
	t := table{headers: []string{"ID", "NAME", "EXPERIMENTS", "PARTICIPANTS", "EVENTS"}}
	for _, team := range teams {
		attrs := team.Attributes
		t.rows = append(t.rows, []string{
			team.ID,
			attrs.Name,
			optionalInt(attrs.ExperimentCount),
			optionalInt(attrs.ParticipantCount),
			optionalInt(attrs.EventCount),
		})
	}
	return t
}
