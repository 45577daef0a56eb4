package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	checkmango "github.com/checkmango/checkmango-go"
)

func (a *app) variantsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "variants",
		Aliases: []string{"variant"},
		Short:   "Manage the variants of an experiment",
	}
	cmd.AddCommand(
		a.variantsListCommand(),
		a.variantsGetCommand(),
		a.variantsCreateCommand(),
		a.variantsUpdateCommand(),
		a.variantsDeleteCommand(),
	)
	return cmd
}

func (a *app) variantsListCommand() *cobra.Command {
	var opts checkmango.ListVariantsOptions
	var include []string

	cmd := &cobra.Command{
		Use:   "list <experiment>",
		Short: "List the variants of an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Experiment = args[0]
			opts.Include = includes[checkmango.VariantInclude](include)
			resp, err := client.ListVariants(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, variantTable(resp.Data...))
		},
	}
	pageFlags(cmd, &opts.Pagination)
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: experiment, team")
	return cmd
}

func (a *app) variantsGetCommand() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "get <experiment> <variant>",
		Short: "Show a variant and its statistics",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			resp, err := client.GetVariant(cmd.Context(), checkmango.GetVariantOptions{
				Experiment: args[0],
				Key:        args[1],
				Include:    includes[checkmango.VariantInclude](include),
			})
			if err != nil {
				return err
			}
			return a.printer.print(resp, variantTable(resp.Data))
		},
	}
	cmd.Flags().StringSliceVar(&include, "include", nil, "Relationships to include: experiment, team")
	return cmd
}

func (a *app) variantsCreateCommand() *cobra.Command {
	var opts checkmango.CreateVariantOptions

	cmd := &cobra.Command{
		Use:   "create <experiment> <variant>",
		Short: "Add a variant to an experiment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Experiment, opts.Key = args[0], args[1]
			resp, err := client.CreateVariant(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, variantTable(resp.Data))
		},
	}
	cmd.Flags().StringVar(&opts.Description, "description", "", "Description")
	cmd.Flags().BoolVar(&opts.Control, "control", false, "Mark the variant as the control")
	return cmd
}

func (a *app) variantsUpdateCommand() *cobra.Command {
	var opts checkmango.UpdateVariantOptions
	var control bool

	cmd := &cobra.Command{
		Use:   "update <experiment> <variant>",
		Short: "Change a variant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			opts.Experiment, opts.Variant = args[0], args[1]
			if cmd.Flags().Changed("control") {
				opts.Control = &control
			}
			resp, err := client.UpdateVariant(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.printer.print(resp, variantTable(resp.Data))
		},
	}
	cmd.Flags().StringVar(&opts.Key, "key", "", "New key")
	cmd.Flags().StringVar(&opts.Description, "description", "", "New description")
	cmd.Flags().BoolVar(&control, "control", false, "Whether the variant is the control")
	return cmd
}

func (a *app) variantsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <experiment> <variant>",
		Short: "Remove a variant from an experiment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(true)
			if err != nil {
				return err
			}
			err = client.DeleteVariant(cmd.Context(), checkmango.DeleteVariantOptions{Experiment: args[0], Variant: args[1]})
			if err != nil {
				return err
			}
			return a.printer.message(deleted("variant", args[1]), "Deleted variant %s of %s", args[1], args[0])
		},
	}
}

func variantTable(variants ...checkmango.Variant) table {
	t := table{headers: []string{"KEY", "CONTROL", "CONVERSION", "UPLIFT", "P-VALUE", "POWER"}}
	for _, v := range variants {
		attrs := v.Attributes
		t.rows = append(t.rows, []string{
			attrs.Key,
			strconv.FormatBool(attrs.Control),
			formatFloat(attrs.ConversionRate),
			formatFloat(attrs.Uplift),
			formatFloat(attrs.PValue),
			formatFloat(attrs.Power),
		})
	}
	return t
}
