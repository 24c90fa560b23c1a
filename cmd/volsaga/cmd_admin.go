package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kompox/volsaga/domain/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// adminTimeout bounds every admin store operation.
const adminTimeout = 30 * time.Second

// newCmdAdmin returns the parent command for admin operations.
func newCmdAdmin() *cobra.Command {
	c := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands (direct CRUD against the store)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.AddCommand(newCmdAdminVolume())
	c.AddCommand(newCmdAdminRecord())
	c.AddCommand(newCmdAdminOperateLog())
	return c
}

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

func getOperator(cmd *cobra.Command) string {
	if f := findFlag(cmd, "operator"); f != nil {
		return f.Value.String()
	}
	return ""
}

// runAdmin opens the configured store, runs fn under a span and closes the
// store again.
func runAdmin(cmd *cobra.Command, operation, resourceID string, fn func(ctx context.Context, ucs *useCases) error) (err error) {
	ctx, cleanup := withCmdRunLogger(cmd.Context(), operation, resourceID)
	defer func() { cleanup(err) }()

	h, err := openStore(configRoot)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(ctx, adminTimeout)
	defer cancel()
	return fn(ctx, buildUseCases(h, configRoot, nil))
}

// readSpec decodes a YAML spec file into v. The document is converted to
// JSON first so v's json tags define the accepted keys.
func readSpec(cmd *cobra.Command, path string, v any) error {
	if path == "" {
		return errors.New("spec file required (-f)")
	}
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse spec %s: %w", path, err)
	}
	if doc == nil {
		return fmt.Errorf("spec %s is empty", path)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert spec %s: %w", path, err)
	}
	if err := json.Unmarshal(js, v); err != nil {
		return fmt.Errorf("decode spec %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printBatch prints the per-item outcome and fails the command when any
// item failed.
func printBatch(cmd *cobra.Command, r *model.BatchResult) error {
	if err := printJSON(cmd, r); err != nil {
		return err
	}
	return r.Err()
}

// addPageFlags registers paging flags and returns a reader for them.
func addPageFlags(c *cobra.Command) func() model.PageRequest {
	var p model.PageRequest
	c.Flags().IntVar(&p.Current, "page", 1, "Page number (1-based)")
	c.Flags().IntVar(&p.Size, "size", model.DefaultPageSize, "Page size")
	c.Flags().StringVar(&p.OrderBy, "order-by", "", "Sort field")
	c.Flags().BoolVar(&p.IsAsc, "asc", false, "Sort ascending when --order-by is set")
	return func() model.PageRequest { return p }
}
