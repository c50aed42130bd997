package fees

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"swaparb/internal/domain"
)

// Schedule — комиссии за перевод по биржам: биржа -> код валюты -> доля.
// Комиссия удерживается с ноги Counter (см. domain.Order.CounterQuantityAfterFee).
//
// Ключи нормализуются: биржа в нижнем регистре, код в верхнем.
type Schedule map[string]map[string]decimal.Decimal

// Parse разбирает таблицу из конфига ("0.002" и т.п.) и проверяет диапазон [0,1).
func Parse(raw map[string]map[string]string) (Schedule, error) {
	s := Schedule{}
	for venue, byCode := range raw {
		for code, v := range byCode {
			rate, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("fees: %s/%s: %w", venue, code, err)
			}
			if err := s.Set(venue, code, rate); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Set задаёт комиссию; допустимый диапазон [0,1).
func (s Schedule) Set(venue, code string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("fees: %s/%s: transfer fee %s out of [0,1)", venue, code, rate)
	}
	v := normVenue(venue)
	if s[v] == nil {
		s[v] = map[string]decimal.Decimal{}
	}
	s[v][normCode(code)] = rate
	return nil
}

// Rate — комиссия биржи для валюты; ноль, если не задана.
func (s Schedule) Rate(venue, code string) decimal.Decimal {
	if byCode, ok := s[normVenue(venue)]; ok {
		if r, ok := byCode[normCode(code)]; ok {
			return r
		}
	}
	return decimal.Zero
}

// Currency собирает валюту биржи: эмитент — имя биржи, комиссия — из таблицы.
func (s Schedule) Currency(venue, code string) domain.Currency {
	return domain.NewCurrency(normCode(code), normVenue(venue), s.Rate(venue, code))
}

func normVenue(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
func normCode(c string) string  { return strings.ToUpper(strings.TrimSpace(c)) }
