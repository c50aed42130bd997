package domain

import "testing"

func TestIsSameCurrencyIgnoresIssuer(t *testing.T) {
	a := Currency{Code: "USD", Issuer: "gatehub", TransferFee: dec("0.1")}
	b := Currency{Code: "USD", Issuer: "bitstamp", TransferFee: dec("0.2")}
	if !a.IsSameCurrency(b) {
		t.Fatalf("same code must be the same currency")
	}
	if a.Equal(b) {
		t.Fatalf("different issuers must not be Equal")
	}
	if a.IsSameCurrency(Currency{Code: "EUR", Issuer: "gatehub"}) {
		t.Fatalf("different codes must differ")
	}
}

func TestAfterTransferFee(t *testing.T) {
	c := Currency{Code: "USD", TransferFee: dec("0.002")}
	if got := c.AfterTransferFee(dec("500")); !got.Equal(dec("499")) {
		t.Fatalf("got=%s want=499", got)
	}
	if s := c.String(); s != "USD" {
		t.Fatalf("String()=%q", s)
	}
	c.Issuer = "binance"
	if s := c.String(); s != "USD:binance" {
		t.Fatalf("String()=%q", s)
	}
}
