package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appRepos "github.com/yigit/edurecords/internal/app/repositories"
	"github.com/yigit/edurecords/internal/app/services"
	"github.com/yigit/edurecords/internal/bootstrap"
	"github.com/yigit/edurecords/internal/seed"
)

// withStore loads the config, opens and migrates the store, runs fn and closes the store again
func withStore(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, store appRepos.Store) error) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.ConfigPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := bootstrap.OpenStore(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(context.Background()); cerr != nil {
			lgr.Error().Err(cerr).Msg("Record store close error")
		}
	}()

	return fn(ctx, store)
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables (postgres) or unique indexes (mongo) and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// OpenStore already migrates
			return withStore(cmd, rootOpts, func(context.Context, appRepos.Store) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
				return nil
			})
		},
	}
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample courses and students, enrolling every student in CS101",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, rootOpts, func(ctx context.Context, store appRepos.Store) error {
				lgr := bootstrap.Logger()
				if err := seed.CreateDefaultData(ctx, services.NewServices(store, lgr), lgr); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Sample data loaded")
				return nil
			})
		},
	}
}
