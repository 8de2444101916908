package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/keeslam/CarRentalManager-sub003/internal/api"
	"github.com/keeslam/CarRentalManager-sub003/internal/config"
	"github.com/keeslam/CarRentalManager-sub003/internal/container"
)

var serverConfigPath string

// serverCmd 启动 API 服务
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the rental manager API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(serverConfigPath)
	},
}

func init() {
	serverCmd.Flags().StringVarP(&serverConfigPath, "config", "c", "", "path to config file")
	rootCmd.AddCommand(serverCmd)
}

// runServer 装配依赖并运行 HTTP 服务,直到收到退出信号
func runServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.Level)
	logrus.SetOutput(logger.Out)

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	// 实时推送与指标采集
	go c.Hub.Run()
	c.Collector.Start()

	// 配置热更新,日志级别跟随变更
	if configPath != "" {
		watcher := config.NewConfigWatcher(cfg, configPath)
		watcher.OnConfigChange(func(newCfg *config.Config) {
			if level, err := logrus.ParseLevel(newCfg.Log.Level); err == nil {
				logger.SetLevel(level)
			}
			logger.Info("Config reloaded")
		})
		if err := watcher.Start(); err != nil {
			logger.WithError(err).Warn("Config watcher disabled")
		} else {
			defer watcher.Stop()
		}
	}

	router := api.NewRouter(cfg, c)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
