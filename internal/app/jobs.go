package app

import (
	"context"
	"time"

	"github.com/maosdefada/loja/internal/catalog"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err := a.sched.AddFunc("@every 1h", func() {
		go a.SchedCatalogStatsTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedCatalogStatsTask logs catalog size so operators can watch the shop
// grow from the log stream alone.
func (a *Application) SchedCatalogStatsTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := catalog.LoadProducts(ctx, a.catalog)
	if err != nil {
		return
	}
	featured := 0
	for _, p := range products {
		if p.Featured {
			featured++
		}
	}
	zap.L().Info("catalog stats",
		zap.Int("products", len(products)),
		zap.Int("featured", featured),
		zap.Int("categories", len(catalog.Categories(products))))
}
