package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/keeslam/CarRentalManager-sub003/internal/config"
	"github.com/keeslam/CarRentalManager-sub003/internal/container"
	"github.com/keeslam/CarRentalManager-sub003/internal/database"
)

var (
	migrateConfigPath string
	adminUsername     string
	adminPassword     string
)

// migrateCmd 执行数据库迁移并播种初始数据
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and seed initial data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(migrateConfigPath)
	},
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateConfigPath, "config", "c", "", "path to config file")
	migrateCmd.Flags().StringVar(&adminUsername, "admin-user", "admin", "initial admin username")
	migrateCmd.Flags().StringVar(&adminPassword, "admin-password", "", "initial admin password (skipped when empty)")
	rootCmd.AddCommand(migrateCmd)
}

// runMigrate 建表、建索引、播种检查项标准集和初始管理员
func runMigrate(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.ConnectWithRetry(cfg.Database, 5, 3*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Database migration completed")

	if adminPassword != "" {
		c := container.NewWithDB(cfg, db)
		if err := c.UserService.EnsureAdmin(adminUsername, adminPassword); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		logrus.WithField("username", adminUsername).Info("Admin user ensured")
	}

	return nil
}
