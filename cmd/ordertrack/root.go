package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laundryops/internal/config"
	"laundryops/internal/repositories"
	"laundryops/internal/services"
	"laundryops/pkg/database"
	"laundryops/pkg/logger"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

const defaultStorePath = "laundry_orders.db"

type commandContext struct {
	dbFlag       *string
	configFlag   *string
	logLevelFlag *string
}

func newCommandContext(dbFlag, configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		dbFlag:       dbFlag,
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) storePath() string {
	if c.dbFlag == nil || strings.TrimSpace(*c.dbFlag) == "" {
		return defaultStorePath
	}
	return strings.TrimSpace(*c.dbFlag)
}

func (c *commandContext) settings() (config.NotificationSettings, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	return config.LoadNotificationSettings(path)
}

func (c *commandContext) logger(cmd *cobra.Command) *logger.Logger {
	level := "warn"
	if c.logLevelFlag != nil && *c.logLevelFlag != "" {
		level = *c.logLevelFlag
	}
	return logger.New(logger.Options{
		ServiceName: "ordertrack",
		Level:       logger.ParseLevel(level),
		Format:      "console",
		Output:      cmd.ErrOrStderr(),
	})
}

// withOrders holds the store lock for the duration of fn. A second process pointed at
// the same store fails fast instead of interleaving writes.
func (c *commandContext) withOrders(cmd *cobra.Command, fn func(ctx context.Context, orders services.OrderService) error) error {
	path := c.storePath()
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another ordertrack instance is using " + path)
	}
	defer func() { _ = lock.Unlock() }()

	settings, err := c.settings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logg := c.logger(cmd)
	db, err := database.OpenSQLite(ctx, path, logg)
	if err != nil {
		return err
	}
	defer db.Close()

	notifications := services.NewNotificationServiceFromSettings(settings, logg)
	return fn(ctx, services.NewOrderService(repositories.NewOrderRepo(db), notifications, logg))
}

func newRootCommand() *cobra.Command {
	var dbFlag, configFlag, logLevelFlag string

	ctx := newCommandContext(&dbFlag, &configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "ordertrack",
		Short:         "Track laundry orders from drop-off to pickup",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", defaultStorePath, "Order store file")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Notification settings file (TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level (debug, info, warn, error)")

	for _, cmd := range newOrderCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newDashboardCommand(ctx))
	rootCmd.AddCommand(newReportCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newSettingsCommand(ctx))

	return rootCmd
}
