package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/fees"
)

// Venue — биржа из конфига и её комиссии за перевод (код -> доля строкой).
type Venue struct {
	Name         string            `yaml:"name"`
	Enabled      *bool             `yaml:"enabled"`
	TransferFees map[string]string `yaml:"transfer_fees"`
}

// IsEnabled: по умолчанию биржа включена.
func (v Venue) IsEnabled() bool { return v.Enabled == nil || *v.Enabled }

type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	LogLevel        string        `yaml:"log_level"`
	Limit           int           `yaml:"limit"`
	DelayMS         int           `yaml:"delay_ms"`
	LiquiditySpread string        `yaml:"liquidity_spread"`
	Pairs           []domain.Pair `yaml:"pairs"`
	Venues          []Venue       `yaml:"venues"`
}

func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		Limit:           20,
		LiquiditySpread: "0.01",
		Pairs: []domain.Pair{
			{Base: "BTC", Counter: "USDT"},
			{Base: "ETH", Counter: "USDT"},
		},
		Venues: []Venue{
			{Name: "binance"},
			{Name: "okx"},
			{Name: "bybit"},
			{Name: "kucoin"},
			{Name: "gate"},
			{Name: "htx"},
			{Name: "bitget"},
		},
	}
}

// Load читает конфиг. Приоритет: ENV > .env > YAML-файл > значения по умолчанию.
// path пустой — берётся SWAPARB_CONFIG; если и он пуст, файл не читается.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // .env необязателен

	cfg := Default()
	if path == "" {
		path = os.Getenv("SWAPARB_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if err := overrideWithEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalizePairs()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func overrideWithEnv(cfg *Config) error {
	if v := os.Getenv("SWAPARB_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SWAPARB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SWAPARB_LIQUIDITY_SPREAD"); v != "" {
		cfg.LiquiditySpread = v
	}
	if v := os.Getenv("SWAPARB_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: SWAPARB_LIMIT: %w", err)
		}
		cfg.Limit = n
	}
	return nil
}

// normalizePairs приводит коды пар к верхнему регистру: так их ждут биржи и fees.Schedule.
func (c *Config) normalizePairs() {
	for i, p := range c.Pairs {
		c.Pairs[i] = domain.Pair{
			Base:    strings.ToUpper(strings.TrimSpace(p.Base)),
			Counter: strings.ToUpper(strings.TrimSpace(p.Counter)),
		}
	}
}

func (c Config) Validate() error {
	if c.Limit <= 0 {
		return errors.New("limit must be positive")
	}
	if c.DelayMS < 0 {
		return errors.New("delay_ms must not be negative")
	}
	s, err := decimal.NewFromString(strings.TrimSpace(c.LiquiditySpread))
	if err != nil {
		return fmt.Errorf("liquidity_spread: %w", err)
	}
	if s.IsNegative() {
		return errors.New("liquidity_spread must not be negative")
	}
	if len(c.Pairs) == 0 {
		return errors.New("no pairs configured")
	}
	for _, p := range c.Pairs {
		if p.Base == "" || p.Counter == "" || strings.EqualFold(p.Base, p.Counter) {
			return fmt.Errorf("bad pair %q", p.String())
		}
	}
	if len(c.EnabledVenues()) == 0 {
		return errors.New("no venues enabled")
	}
	if _, err := c.Fees(); err != nil {
		return err
	}
	return nil
}

// Spread — порог ликвидности; вызывать после Validate.
func (c Config) Spread() decimal.Decimal {
	return decimal.RequireFromString(strings.TrimSpace(c.LiquiditySpread))
}

// Fees собирает таблицу комиссий всех бирж.
func (c Config) Fees() (fees.Schedule, error) {
	raw := map[string]map[string]string{}
	for _, v := range c.Venues {
		if len(v.TransferFees) > 0 {
			raw[v.Name] = v.TransferFees
		}
	}
	return fees.Parse(raw)
}

// EnabledVenues — имена включённых бирж в порядке конфига.
func (c Config) EnabledVenues() []string {
	var out []string
	for _, v := range c.Venues {
		if v.IsEnabled() {
			out = append(out, strings.ToLower(v.Name))
		}
	}
	return out
}

// Exchange — параметры запроса стаканов для адаптеров.
func (c Config) Exchange() domain.Config {
	return domain.Config{DelayMS: c.DelayMS, Limit: c.Limit}
}

func (c Config) Delay() time.Duration { return time.Duration(c.DelayMS) * time.Millisecond }
