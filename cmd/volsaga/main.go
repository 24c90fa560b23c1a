package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kompox/volsaga/config/volsagacfg"
	"github.com/kompox/volsaga/internal/logging"
	"github.com/spf13/cobra"
)

// configRoot holds the configuration resolved in PersistentPreRunE.
var configRoot *volsagacfg.Root

// logOutput is the open log destination, closed when the command returns.
var logOutput *logging.Output

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "volsaga",
		Short:   "Volume registry, recovery ledger and saga log service",
		Long:    "volsaga keeps the registry of user volumes, the ledger of deleted volumes and the saga operation log.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", os.Getenv("VOLSAGA_CONFIG"), "Path to volsaga.yml (env VOLSAGA_CONFIG)")
	cmd.PersistentFlags().String("db-url", "", "Store URL, overrides store.url (memory: | sqlite:/path/to.db | bolt:/path/to.bolt)")
	cmd.PersistentFlags().String("log-format", "", "Log format (human|text|json), overrides logging.format")
	cmd.PersistentFlags().String("operator", os.Getenv("VOLSAGA_OPERATOR"), "Operator recorded in audit columns (env VOLSAGA_OPERATOR)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		configRoot = cfg

		level, _ := cfg.Logging.SlogLevel()
		now := time.Now()
		out, err := logging.OpenOutput(cfg.Logging.Output, cfg.Logging.Dir, now)
		if err != nil {
			return err
		}
		logOutput = out
		l, err := logging.NewWithWriter(cfg.Logging.Format, level, out.Writer())
		if err != nil {
			return err
		}
		if removed, err := logging.Prune(cfg.Logging.Dir, cfg.Logging.RetentionDays, now); err != nil {
			l.Warn(c.Context(), "log retention failed", "err", err)
		} else if len(removed) > 0 {
			l.Debug(c.Context(), "old log files removed", "count", len(removed))
		}
		l = l.With("runId", uuid.NewString())
		c.SetContext(logging.WithLogger(c.Context(), l))
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdServe())
	cmd.AddCommand(newCmdAdmin())
	return cmd
}

// loadConfig reads the config file and applies flag overrides on top of
// file and environment values.
func loadConfig(c *cobra.Command) (*volsagacfg.Root, error) {
	path, _ := c.Flags().GetString("config")
	cfg, err := volsagacfg.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := c.Flags().GetString("db-url"); v != "" {
		cfg.Store.URL = v
	}
	if v, _ := c.Flags().GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
	}
	_ = logOutput.Close()
	if err != nil {
		os.Exit(1)
	}
}
