package webserver

import (
	"time"

	"go.uber.org/zap"

	"swaparb/internal/app/realflow"
	"swaparb/internal/config"
	"swaparb/internal/transport/httpapi"
)

// Сколько живёт кэш скана между запросами к API.
const scanTTL = 5 * time.Second

func New(cfg config.Config, log *zap.Logger) (*httpapi.Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	// Биржи -> стаканы -> скан свопов
	svc, err := realflow.New(cfg, log)
	if err != nil {
		return nil, err
	}
	// Адаптер между httpapi и arbitrage.Service
	return httpapi.New(cfg.HTTPAddr, httpapi.NewCachedFlow(svc, scanTTL), log.Named("http")), nil
}
