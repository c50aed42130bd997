package realflow

import (
	"fmt"

	"go.uber.org/zap"

	"swaparb/internal/adapters/exchange"
	"swaparb/internal/config"
	"swaparb/internal/domain"
	"swaparb/internal/infra/exchangebooks"
	"swaparb/internal/usecase/arbitrage"
)

// New собирает боевой поток: адаптеры бирж -> репозиторий стаканов -> скан свопов.
func New(cfg config.Config, log *zap.Logger) (*arbitrage.Service, error) {
	fs, err := cfg.Fees()
	if err != nil {
		return nil, err
	}
	venues, err := exchange.Build(cfg.EnabledVenues(), cfg.Exchange(), fs)
	if err != nil {
		return nil, err
	}
	return Assemble(cfg, venues, log)
}

// Assemble — тот же поток поверх готовых адаптеров.
func Assemble(cfg config.Config, venues []domain.Venue, log *zap.Logger) (*arbitrage.Service, error) {
	if len(venues) == 0 {
		return nil, fmt.Errorf("realflow: нет включённых бирж")
	}
	if log == nil {
		log = zap.NewNop()
	}
	exchanges := make([]domain.Exchange, 0, len(venues))
	encoders := make([]domain.OrderEncoder, 0, len(venues))
	names := make([]string, 0, len(venues))
	for _, v := range venues {
		exchanges = append(exchanges, v)
		encoders = append(encoders, v)
		names = append(names, v.Name())
	}
	log.Info("venues ready", zap.Strings("venues", names), zap.Int("pairs", len(cfg.Pairs)))

	repo := exchangebooks.NewRepo(exchanges, cfg.Limit, cfg.Delay(), log.Named("books"))
	return arbitrage.New(repo, cfg.Pairs, cfg.Spread(), encoders, log.Named("scan")), nil
}
