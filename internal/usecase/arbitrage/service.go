package arbitrage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"swaparb/internal/domain"
	"swaparb/internal/usecase/orderbook"
	"swaparb/internal/usecase/swap"
)

// Service — скан свопов по настроенным парам:
// 1) стаканы всех бирж через Repo;
// 2) сортировка и отсев неликвидных по порогу спреда;
// 3) попарный скан ликвидных стаканов;
// 4) заявки для каждой ноги (формируются, не отправляются).
type Service struct {
	repo     Repo
	pairs    []domain.Pair
	spread   decimal.Decimal
	encoders map[string]domain.OrderEncoder
	scanner  *swap.Scanner
	log      *zap.Logger
	now      func() time.Time
}

func New(repo Repo, pairs []domain.Pair, spread decimal.Decimal, encoders []domain.OrderEncoder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	byVenue := make(map[string]domain.OrderEncoder, len(encoders))
	for _, e := range encoders {
		byVenue[strings.ToLower(e.Name())] = e
	}
	return &Service{
		repo:     repo,
		pairs:    pairs,
		spread:   spread,
		encoders: byVenue,
		scanner:  swap.NewScanner(log),
		log:      log,
		now:      time.Now,
	}
}

// Pairs — пары, которые сканирует сервис.
func (s *Service) Pairs() []domain.Pair { return s.pairs }

func (s *Service) Scan(ctx context.Context) (Result, error) {
	res := Result{
		Pairs:       s.pairs,
		GeneratedAt: s.now().Format("15:04 02.01.2006"),
	}

	books, diags, err := s.repo.FetchBooks(ctx, s.pairs)
	if err != nil {
		return Result{}, err
	}
	res.Diagnostics = append(res.Diagnostics, diags...)

	obs := orderbook.NewOrderBooks(s.spread, books...)
	if err := obs.Sort(); err != nil {
		return Result{}, err
	}
	liquid, illiquid, err := obs.Partition()
	if err != nil {
		return Result{}, err
	}
	res.Liquid, res.Illiquid = len(liquid), len(illiquid)
	for _, b := range illiquid {
		res.Diagnostics = append(res.Diagnostics, b.Venue()+":"+b.Pair().String()+":illiquid")
	}

	if res.Books, err = orderbook.SummarizeAll(books); err != nil {
		return Result{}, err
	}

	trades, err := s.scanner.Scan(liquid)
	if err != nil {
		return Result{}, fmt.Errorf("arbitrage: скан: %w", err)
	}
	for _, t := range trades {
		op, err := s.opportunity(t)
		if err != nil {
			return Result{}, err
		}
		res.Opportunities = append(res.Opportunities, op)
	}

	s.log.Info("scan done",
		zap.Int("books", len(books)),
		zap.Int("liquid", res.Liquid),
		zap.Int("opportunities", len(res.Opportunities)))
	return res, nil
}

func (s *Service) opportunity(t swap.Trade) (Opportunity, error) {
	sellOut, buyOut := t.Profit()
	sell, err := s.leg(t.SellOrder, t.SellPair)
	if err != nil {
		return Opportunity{}, err
	}
	buy, err := s.leg(t.BuyOrder, t.BuyPair)
	if err != nil {
		return Opportunity{}, err
	}
	return Opportunity{
		Alignment: t.Alignment.String(),
		Start:     t.StartingCurrency.Code,
		Sell:      sell,
		Buy:       buy,
		SellOut:   sellOut,
		BuyOut:    buyOut,
	}, nil
}

// leg: биржа ноги — эмитент её валют.
func (s *Service) leg(o domain.Order, pair domain.Pair) (Leg, error) {
	l := Leg{Venue: o.Base.Issuer, Pair: pair, Order: o.String()}
	enc, ok := s.encoders[strings.ToLower(o.Base.Issuer)]
	if !ok {
		s.log.Debug("no encoder for venue", zap.String("venue", o.Base.Issuer))
		return l, nil
	}
	sub, err := enc.EncodeOrder(o, pair)
	if err != nil {
		return Leg{}, fmt.Errorf("arbitrage: заявка %s: %w", l.Venue, err)
	}
	l.Submission = &sub
	return l, nil
}
