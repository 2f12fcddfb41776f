package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geosect/geosect/pkg/config"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/store"
)

// runsCommand creates the runs command for inspecting persisted pipeline runs.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect persisted pipeline runs",
		Long: `Runs lists, shows, and deletes pipeline runs persisted by the HTTP
server. A MongoDB store (store.mongo_uri in the config file) is required;
the in-memory store only lives as long as the server process.`,
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsDeleteCommand())

	return cmd
}

// newPersistentStore opens the configured MongoDB store, rejecting the
// in-memory fallback: a fresh CLI process would always see it empty.
func (c *CLI) newPersistentStore(ctx context.Context) (store.RunStore, error) {
	if c.Config.Store.MongoURI == "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "runs require a MongoDB store: set store.mongo_uri in %s", config.Path())
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:      c.Config.Store.MongoURI,
		Database: c.Config.Store.Database,
	})
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newPersistentStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			summaries, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printInfo("No runs stored")
				return nil
			}

			for _, s := range summaries {
				title := s.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Printf("%s  %s  %s  %d boreholes\n",
					StyleValue.Render(s.ID),
					s.CreatedAt.Format("2006-01-02 15:04"),
					StyleTitle.Render(title),
					s.BoreholeCount)
			}
			return nil
		},
	}
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one persisted run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateRunID(args[0]); err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newPersistentStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			run, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}

			printInfo("Run %s", run.ID)
			if run.Title != "" {
				printDetail("Title: %s", run.Title)
			}
			if run.Input != "" {
				printDetail("Input: %s", run.Input)
			}
			printDetail("Created: %s", run.CreatedAt.Format("2006-01-02 15:04:05"))
			printDetail("Boreholes: %d", len(run.Boreholes))
			printDetail("Mode: %s", run.Layout.Scale.Mode)
			for format, size := range run.Artifacts {
				printDetail("Artifact %s: %d bytes", format, size)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full run as JSON")

	return cmd
}

// runsDeleteCommand creates the "runs delete" subcommand.
func (c *CLI) runsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a persisted run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateRunID(args[0]); err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newPersistentStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted run %s", args[0])
			return nil
		},
	}
}
