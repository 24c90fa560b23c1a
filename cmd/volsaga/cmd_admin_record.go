package main

import (
	"context"
	"strings"

	"github.com/kompox/volsaga/usecase/volumerecord"
	"github.com/spf13/cobra"
)

func newCmdAdminRecord() *cobra.Command {
	c := &cobra.Command{
		Use:                "record",
		Aliases:            []string{"volumerecord"},
		Short:              "Recovery ledger admin commands",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdAdminRecordList())
	c.AddCommand(newCmdAdminRecordGet())
	c.AddCommand(newCmdAdminRecordCreate())
	c.AddCommand(newCmdAdminRecordUpdate())
	c.AddCommand(newCmdAdminRecordDelete())
	c.AddCommand(newCmdAdminRecordRestore())
	return c
}

func newCmdAdminRecordList() *cobra.Command {
	var in volumerecord.SearchInput
	c := &cobra.Command{
		Use:                "list",
		Short:              "List ledger entries",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
	}
	page := addPageFlags(c)
	c.Flags().StringVar(&in.VolumeName, "volume-name", "", "Filter by volume name substring")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runAdmin(cmd, "admin.record.list", "", func(ctx context.Context, ucs *useCases) error {
			in.Page = page()
			out, err := ucs.Records.Search(ctx, &in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Page)
		})
	}
	return c
}

func newCmdAdminRecordGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <id>",
		Short:              "Get a ledger entry",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, "admin.record.get", args[0], func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Records.Get(ctx, &volumerecord.GetInput{ID: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Record)
			})
		},
	}
}

func newCmdAdminRecordCreate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:                "create",
		Short:              "Create a ledger entry (from spec file)",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in volumerecord.CreateInput
			if err := readSpec(cmd, file, &in); err != nil {
				return err
			}
			in.Operator = getOperator(cmd)
			return runAdmin(cmd, "admin.record.create", in.VolumeName, func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Records.Create(ctx, &in)
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Record)
			})
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Path to ledger entry spec (YAML), or '-' for stdin")
	_ = c.MarkFlagRequired("file")
	return c
}

func newCmdAdminRecordUpdate() *cobra.Command {
	var remark string
	c := &cobra.Command{
		Use:                "update <id>",
		Short:              "Update the remark of a ledger entry",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := &volumerecord.UpdateInput{ID: args[0], Remark: &remark, Operator: getOperator(cmd)}
			return runAdmin(cmd, "admin.record.update", args[0], func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Records.Update(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Record)
			})
		},
	}
	c.Flags().StringVar(&remark, "remark", "", "New remark")
	_ = c.MarkFlagRequired("remark")
	return c
}

func newCmdAdminRecordDelete() *cobra.Command {
	return &cobra.Command{
		Use:                "delete <id>...",
		Short:              "Delete ledger entries",
		Args:               cobra.MinimumNArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, "admin.record.delete", strings.Join(args, ","), func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Records.BatchDelete(ctx, &volumerecord.BatchDeleteInput{IDs: args, Operator: getOperator(cmd)})
				if err != nil {
					return err
				}
				return printBatch(cmd, out.Result)
			})
		},
	}
}

func newCmdAdminRecordRestore() *cobra.Command {
	var name string
	c := &cobra.Command{
		Use:                "restore <id>",
		Short:              "Recreate the volume held by a ledger entry",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, "admin.record.restore", args[0], func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.Records.Restore(ctx, &volumerecord.RestoreInput{ID: args[0], Name: name, Operator: getOperator(cmd)})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Volume)
			})
		},
	}
	c.Flags().StringVar(&name, "name", "", "Restore under a different volume name")
	return c
}
