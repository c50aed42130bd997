package domain

import "github.com/shopspring/decimal"

// Currency — актив и ставка комиссии за перевод, которую удерживает эмитент.
// В этом проекте Issuer — имя биржи, с которой прочитан стакан.
type Currency struct {
	Code        string
	Issuer      string
	TransferFee decimal.Decimal // доля в [0,1)
}

func NewCurrency(code, issuer string, fee decimal.Decimal) Currency {
	return Currency{Code: code, Issuer: issuer, TransferFee: fee}
}

// IsSameCurrency сравнивает только код, эмитент игнорируется:
// USDT на Binance и USDT на OKX считаются одной валютой.
func (c Currency) IsSameCurrency(other Currency) bool {
	return c.Code == other.Code
}

// Equal — полное равенство (код, эмитент, комиссия).
func (c Currency) Equal(other Currency) bool {
	return c.Code == other.Code && c.Issuer == other.Issuer && c.TransferFee.Equal(other.TransferFee)
}

// AfterTransferFee — сколько останется от amount после удержания комиссии.
func (c Currency) AfterTransferFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(c.TransferFee))
}

func (c Currency) String() string {
	if c.Issuer == "" {
		return c.Code
	}
	return c.Code + ":" + c.Issuer
}
