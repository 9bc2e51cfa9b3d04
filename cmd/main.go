package main

import (
	"fmt"
	"os"
	"strings"

	"FightSync/internal/api"
	"FightSync/internal/config"
	"FightSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app 在 PersistentPreRunE 中初始化，供各子命令共享
type app struct {
	configPath string
	cfg        *config.Config
	logger     *logrus.Logger
	db         *gorm.DB
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}
	a.cfg = cfg
	a.logger = newLogger(cfg.Log)
	a.logger.Info("配置文件加载成功")

	db, err := repository.OpenDatabase(cfg.Database, a.logger)
	if err != nil {
		return err
	}
	a.db = db
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "fightsync",
		Short:             "对决数据入库、去重与派生字段维护",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	root.AddCommand(
		serveCmd(a),
		ingestCmd(a),
		updateEventURLsCmd(a),
		updateEventImagesCmd(a),
		updateCompetitorImagesCmd(a),
		standardizeFightTitlesCmd(a),
		fetchImagesCmd(a),
		cleanDataCmd(a),
		mergeVenuesCmd(a),
	)
	return root
}

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gin.SetMode(a.cfg.Server.Mode)
			a.logger.Infof("Gin运行模式: %s", a.cfg.Server.Mode)

			r := api.NewRouter(a.db, a.logger)
			port := a.cfg.Server.Port
			a.logger.Infof("服务启动成功，端口：%d", port)
			return r.Run(fmt.Sprintf(":%d", port))
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
