package main

import (
	"context"
	"strings"

	"github.com/kompox/volsaga/usecase/volume"
	"github.com/spf13/cobra"
)

func newCmdAdminVolume() *cobra.Command {
	c := &cobra.Command{
		Use:                "volume",
		Aliases:            []string{"vol"},
		Short:              "Volume registry admin commands",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdAdminVolumeList())
	c.AddCommand(newCmdAdminVolumeGet())
	c.AddCommand(newCmdAdminVolumeCreate())
	c.AddCommand(newCmdAdminVolumeUpdate())
	c.AddCommand(newCmdAdminVolumeDelete())
	return c
}

func newCmdAdminVolumeList() *cobra.Command {
	var in volume.SearchInput
	c := &cobra.Command{
		Use:                "list",
		Short:              "List volumes",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
	}
	page := addPageFlags(c)
	c.Flags().StringVar(&in.Name, "name", "", "Filter by name substring")
	c.Flags().StringVar(&in.Alias, "alias", "", "Filter by alias substring")
	c.Flags().StringVar(&in.Username, "username", "", "Filter by username")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runAdmin(cmd, "admin.volume.list", "", func(ctx context.Context, ucs *useCases) error {
			in.Page = page()
			out, err := ucs.Volumes.Search(ctx, &in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Page)
		})
	}
	return c
}

func newCmdAdminVolumeGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <name>",
		Short:              "Get a volume",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, "admin.volume.get", args[0], func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Volumes.Get(ctx, &volume.GetInput{Name: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Volume)
			})
		},
	}
}

func newCmdAdminVolumeCreate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:                "create",
		Short:              "Create a volume (from spec file)",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in volume.CreateInput
			if err := readSpec(cmd, file, &in); err != nil {
				return err
			}
			in.Operator = getOperator(cmd)
			return runAdmin(cmd, "admin.volume.create", in.Name, func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Volumes.Create(ctx, &in)
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Volume)
			})
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Path to volume spec (YAML), or '-' for stdin")
	_ = c.MarkFlagRequired("file")
	return c
}

func newCmdAdminVolumeUpdate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:                "update <name>",
		Short:              "Update a volume (merge from spec)",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in volume.UpdateInput
			if err := readSpec(cmd, file, &in); err != nil {
				return err
			}
			if in.ID == "" {
				in.Name = args[0]
			}
			in.Operator = getOperator(cmd)
			return runAdmin(cmd, "admin.volume.update", args[0], func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Volumes.Update(ctx, &in)
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Volume)
			})
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Path to volume spec (YAML), or '-' for stdin")
	_ = c.MarkFlagRequired("file")
	return c
}

func newCmdAdminVolumeDelete() *cobra.Command {
	var purge bool
	c := &cobra.Command{
		Use:                "delete <name-or-id>...",
		Short:              "Delete volumes, recording each in the ledger unless purged",
		Args:               cobra.MinimumNArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, "admin.volume.delete", strings.Join(args, ","), func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Volumes.BatchDelete(ctx, &volume.BatchDeleteInput{IDs: args, Purge: purge, Operator: getOperator(cmd)})
				if err != nil {
					return err
				}
				return printBatch(cmd, out.Result)
			})
		},
	}
	c.Flags().BoolVar(&purge, "purge", false, "Skip the recovery ledger record")
	return c
}
