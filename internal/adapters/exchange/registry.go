package exchange

import (
	"fmt"
	"strings"

	binanceadapter "swaparb/internal/adapters/exchange/binance"
	bitgetadapter "swaparb/internal/adapters/exchange/bitget"
	bybitadapter "swaparb/internal/adapters/exchange/bybit"
	gateadapter "swaparb/internal/adapters/exchange/gate"
	htxadapter "swaparb/internal/adapters/exchange/htx"
	kucoinadapter "swaparb/internal/adapters/exchange/kucoin"
	okxadapter "swaparb/internal/adapters/exchange/okx"
	"swaparb/internal/domain"
	"swaparb/internal/usecase/fees"
)

// Build создаёт адаптеры бирж по именам из конфига.
func Build(names []string, config domain.Config, fs fees.Schedule) ([]domain.Venue, error) {
	var out []domain.Venue
	for _, n := range names {
		switch strings.ToLower(n) {
		case "binance":
			out = append(out, binanceadapter.New(config, fs))
		case "okx":
			out = append(out, okxadapter.New(config, fs))
		case "bybit":
			out = append(out, bybitadapter.New(config, fs))
		case "kucoin":
			out = append(out, kucoinadapter.New(config, fs))
		case "gate":
			out = append(out, gateadapter.New(config, fs))
		case "htx":
			out = append(out, htxadapter.New(config, fs))
		case "bitget":
			out = append(out, bitgetadapter.New(config, fs))
		default:
			return nil, fmt.Errorf("exchange: неизвестная биржа %q", n)
		}
	}
	return out, nil
}
