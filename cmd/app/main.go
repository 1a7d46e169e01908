package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"iitk-connect/internal/config"
	"iitk-connect/internal/mylogger"
	statusboard "iitk-connect/internal/status-board"
	"iitk-connect/internal/status-board/adapters/driven/db"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "app",
		Short:         "Campus ride status board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), codesCmd())
	return root
}

// setup loads config and builds the logger, then reports the defaults config fell back to.
func setup() (*config.Config, mylogger.Logger, error) {
	cfg, warnings, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return nil, nil, err
	}

	mylog := mylogger.New(cfg.Log.Level)
	for _, w := range warnings {
		mylog.Action("config").Debug("using default", "key", w.Key, "default", w.Default, "reason", w.Reason)
	}
	return cfg, mylog, nil
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, driver socket and SMS bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, mylog, err := setup()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Srv.Port = port
			}

			mylog.Action("status_board_started").Info("Status board starting up")
			if err := statusboard.Execute(cmd.Context(), mylog, cfg); err != nil {
				mylog.Action("status_board_failed").Error("Status board stopped with error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the drivers table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, mylog, err := setup()
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.StoreDriverPostgres {
				return fmt.Errorf("migrate needs STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.Store.Driver)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			database, err := db.ConnectDB(ctx, cfg.DB, mylog)
			if err != nil {
				return err
			}
			defer database.Close()

			return database.Migrate(ctx)
		},
	}
}

func codesCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Print the code table drivers text in",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := statusboard.LoadCodeMap(&config.Appconfig{CodeMapPath: path})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tSTATUS\tLOCATION")
			for _, e := range codes.Entries() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Code, e.Action, e.Name)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "file", os.Getenv("CODE_MAP_PATH"), "code map YAML (defaults to CODE_MAP_PATH)")
	return cmd
}
