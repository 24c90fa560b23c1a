package main

import (
	"context"
	"strings"

	"github.com/kompox/volsaga/usecase/operatelog"
	"github.com/spf13/cobra"
)

func newCmdAdminOperateLog() *cobra.Command {
	c := &cobra.Command{
		Use:                "operatelog",
		Aliases:            []string{"oplog"},
		Short:              "Saga operation log admin commands",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdAdminOperateLogList())
	c.AddCommand(newCmdAdminOperateLogGet())
	c.AddCommand(newCmdAdminOperateLogCreate())
	c.AddCommand(newCmdAdminOperateLogUpdate())
	c.AddCommand(newCmdAdminOperateLogDelete())
	return c
}

func newCmdAdminOperateLogList() *cobra.Command {
	var in operatelog.SearchInput
	c := &cobra.Command{
		Use:                "list",
		Short:              "List saga log entries",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
	}
	page := addPageFlags(c)
	c.Flags().StringVar(&in.SagaName, "saga-name", "", "Filter by saga name substring")
	c.Flags().StringVar(&in.SagaStatus, "saga-status", "", "Filter by saga status")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runAdmin(cmd, "admin.operatelog.list", "", func(ctx context.Context, ucs *useCases) error {
			in.Page = page()
			out, err := ucs.OperateLog.Search(ctx, &in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out.Page)
		})
	}
	return c
}

func newCmdAdminOperateLogGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <sagaOperateId>",
		Short:              "Get a saga log entry",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, "admin.operatelog.get", args[0], func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.OperateLog.Get(ctx, &operatelog.GetInput{SagaOperateID: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Log)
			})
		},
	}
}

func newCmdAdminOperateLogCreate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:                "create",
		Short:              "Record a saga snapshot (from spec file)",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in operatelog.CreateInput
			if err := readSpec(cmd, file, &in); err != nil {
				return err
			}
			in.Operator = getOperator(cmd)
			return runAdmin(cmd, "admin.operatelog.create", in.SagaOperateID, func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.OperateLog.Create(ctx, &in)
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Log)
			})
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Path to saga snapshot spec (YAML), or '-' for stdin")
	_ = c.MarkFlagRequired("file")
	return c
}

func newCmdAdminOperateLogUpdate() *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:                "update <sagaOperateId>",
		Short:              "Update a saga log entry (merge from spec)",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in operatelog.UpdateInput
			if err := readSpec(cmd, file, &in); err != nil {
				return err
			}
			in.SagaOperateID = args[0]
			in.Operator = getOperator(cmd)
			return runAdmin(cmd, "admin.operatelog.update", args[0], func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.OperateLog.Update(ctx, &in)
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Log)
			})
		},
	}
	c.Flags().StringVarP(&file, "file", "f", "", "Path to saga snapshot spec (YAML), or '-' for stdin")
	_ = c.MarkFlagRequired("file")
	return c
}

func newCmdAdminOperateLogDelete() *cobra.Command {
	return &cobra.Command{
		Use:                "delete <sagaOperateId>...",
		Short:              "Prune saga log entries of finished sagas",
		Args:               cobra.MinimumNArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, "admin.operatelog.delete", strings.Join(args, ","), func(ctx context.Context, ucs *useCases) error {
				out, err := ucs.OperateLog.BatchDelete(ctx, &operatelog.BatchDeleteInput{IDs: args, Operator: getOperator(cmd)})
				if err != nil {
					return err
				}
				return printBatch(cmd, out.Result)
			})
		},
	}
}
