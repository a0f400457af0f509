package migrate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/guildkeeper/guildkeeper/internal/infrastructure/config"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/database"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/migration"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

const defaultScriptsPath = "./internal/infrastructure/migration/scripts"

type options struct {
	configPath  *string
	auto        bool
	steps       int
	name        string
	scriptsPath string
}

// NewCommand returns the migrate command tree. configPath is the root
// command's --config flag.
func NewCommand(configPath *string) *cobra.Command {
	opts := &options{configPath: configPath}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
		newCreateCommand(opts),
	)

	return cmd
}

func newUpCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Derive the schema from the models with gorm AutoMigrate instead of the versioned scripts")

	return cmd
}

func newDownCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}
}

func newCreateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create new migration files, one per supported database, with the specified name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&opts.scriptsPath, "scripts", defaultScriptsPath, "Directory holding the per-database script folders")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv(opts *options) (*config.Config, *gorm.DB, logger.Interface, error) {
	cfg, err := config.Load(*opts.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := database.Init(&cfg.Database, log); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, database.Get(), log, nil
}

func runUp(ctx context.Context, opts *options) error {
	cfg, db, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	manager, err := migration.NewManager(cfg.Database.Driver, opts.auto, log)
	if err != nil {
		return err
	}

	log.Infow("running up migrations", "driver", cfg.Database.Driver, "strategy", manager.GetStrategy().GetName())
	return manager.Migrate(ctx, db)
}

func runDown(ctx context.Context, opts *options) error {
	cfg, db, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "driver", cfg.Database.Driver, "steps", opts.steps)

	strategy, err := migration.NewGooseStrategy(cfg.Database.Driver, log)
	if err != nil {
		return err
	}

	if err := strategy.MigrateDown(ctx, db, opts.steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, opts *options) error {
	cfg, db, log, err := initEnv(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	strategy, err := migration.NewGooseStrategy(cfg.Database.Driver, log)
	if err != nil {
		return err
	}

	version, err := strategy.GetVersion(cmd.Context(), db)
	if err != nil {
		return err
	}
	statuses, err := strategy.Status(cmd.Context(), db)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Driver:          %s\n", cfg.Database.Driver)
	fmt.Fprintf(out, "  Current Version: %d\n\n", version)
	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = "applied"
		}
		fmt.Fprintf(out, "  %05d  %-8s %s\n", st.Version, state, filepath.Base(st.Path))
	}
	return nil
}

func runCreate(cmd *cobra.Command, opts *options) error {
	generator := migration.NewGenerator(opts.scriptsPath, logger.NewLogger())

	paths, err := generator.CreateMigration(opts.name)
	if err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
	}
	return nil
}
