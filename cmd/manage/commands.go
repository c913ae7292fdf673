package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/enrollment/internal/app/migrations"
	"github.com/yigit/enrollment/internal/bootstrap"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/seed"
)

var errNotConfirmed = errors.New("refusing to drop tables without --yes")

// env is what every subcommand needs once the configuration is loaded
type env struct {
	cfg   *config.Config
	lgr   zerolog.Logger
	store *db.Store
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "manage",
		Short:         "Administrative tasks for the enrollment database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.ConfigPath(), "path to the YAML configuration file")

	withEnv := func(run func(ctx context.Context, e *env) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
			if err != nil {
				return err
			}
			store, err := bootstrap.ConnectDatabase(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}
			defer store.Close()
			return run(cmd.Context(), &env{cfg: cfg, lgr: lgr, store: store})
		}
	}

	root.AddCommand(
		newMigrateCmd(withEnv),
		newSeedCmd(withEnv),
		newCreateDBCmd(withEnv),
		newDeleteDBCmd(withEnv),
	)
	return root
}

type envRunner func(run func(ctx context.Context, e *env) error) func(*cobra.Command, []string) error

func newMigrateCmd(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *env) error {
			return bootstrap.RunMigrations(ctx, e.cfg, e.store, e.lgr)
		}),
	}
}

func newSeedCmd(withEnv envRunner) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with generated students, courses and groups",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *env) error {
			return runSeed(ctx, e, force)
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "seed even when students already exist")
	return cmd
}

func newCreateDBCmd(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "create-db",
		Short: "Apply migrations and seed the database",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *env) error {
			if err := bootstrap.RunMigrations(ctx, e.cfg, e.store, e.lgr); err != nil {
				return err
			}
			return runSeed(ctx, e, false)
		}),
	}
}

func newDeleteDBCmd(withEnv envRunner) *cobra.Command {
	var yes bool
	run := withEnv(func(ctx context.Context, e *env) error {
		return migrations.NewMigrator(e.store, e.lgr).DropAll(ctx)
	})

	cmd := &cobra.Command{
		Use:   "delete-db",
		Short: "Drop every table, including migration history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			return run(cmd, args)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm dropping all tables")
	return cmd
}

func runSeed(ctx context.Context, e *env, force bool) error {
	opts := seed.OptionsFromConfig(e.cfg)
	opts.Force = force
	_, err := seed.Run(ctx, e.store, opts, e.lgr)
	return err
}
