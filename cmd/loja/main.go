package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/maosdefada/loja/config"
	"github.com/maosdefada/loja/internal/adminapi"
	"github.com/maosdefada/loja/internal/app"
	"github.com/maosdefada/loja/internal/webserver"
	"github.com/maosdefada/loja/internal/whatsapp"
	"go.uber.org/zap"
)

var (
	h        bool
	showVer  bool
	initdb   bool
	conffile string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.BoolVar(&showVer, "v", false, "show version")
	flag.BoolVar(&initdb, "initdb", false, "drop and recreate all tables")
	flag.StringVar(&conffile, "conf", "loja.yml", "config file path")
}

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		return
	}
	if showVer {
		fmt.Println(config.Version)
		return
	}

	cfg := config.LoadConfig(conffile)
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	webserver.Init(application)
	adminapi.InitRouter()

	if cfg.Whatsapp.Enabled && application.DB() != nil {
		sqlDB, err := application.DB().DB()
		if err != nil {
			zap.S().Errorf("whatsapp disabled: %s", err.Error())
		} else {
			svc, err := whatsapp.New(sqlDB, cfg.Database.Type, cfg.Whatsapp.NotifyJid)
			if err != nil {
				zap.S().Errorf("whatsapp disabled: %s", err.Error())
			} else {
				go func() {
					_ = svc.Start(ctx)
				}()
			}
		}
	}

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		zap.S().Info("shutting down")
		cancel()
		webserver.Shutdown()
	}()

	if err := webserver.Listen(); err != nil && err != http.ErrServerClosed {
		zap.S().Fatal(err.Error())
	}
}
